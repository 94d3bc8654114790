package inksight

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Default modifier strengths for intensifiers and diminishers listed without
// an explicit factor in an external lexicon.
const (
	defaultIntensifier = 0.3
	defaultDiminisher  = -0.3
)

// SentimentLexicon holds word polarities, modifiers and negations. It is
// safe for concurrent use.
type SentimentLexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
	mutex     sync.RWMutex
}

// LexiconEntry is one scored word.
type LexiconEntry struct {
	Word       string
	Sentiment  float64 // -1 to 1
	Confidence float64 // 0 to 1
	Domain     string  // "general" for built-in words, "custom" for AddCustomWord
}

// ExternalLexicon is the JSON structure of an external lexicon file. All
// categories are optional.
type ExternalLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Positive     []WordEntry     `json:"positive,omitempty"`
	Negative     []WordEntry     `json:"negative,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word       string  `json:"word"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain,omitempty"`
}

// ModifierEntry represents a modifier word in JSON format
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

// LoadSentimentLexicon returns a new copy of the built-in English lexicon.
func LoadSentimentLexicon() *SentimentLexicon {
	lexicon := &SentimentLexicon{
		words:     make(map[string]LexiconEntry, len(englishWords)),
		modifiers: make(map[string]float64, len(englishModifiers)),
		negations: make(map[string]bool, len(englishNegations)),
	}
	for w, e := range englishWords {
		lexicon.words[w] = LexiconEntry{Word: w, Sentiment: e[0], Confidence: e[1], Domain: "general"}
	}
	for w, f := range englishModifiers {
		lexicon.modifiers[w] = f
	}
	for _, w := range englishNegations {
		lexicon.negations[w] = true
	}
	return lexicon
}

// LoadSentimentLexiconWithExternal loads the built-in lexicon and merges the
// external JSON lexicon at externalPath, if given.
func LoadSentimentLexiconWithExternal(externalPath string) (*SentimentLexicon, error) {
	lexicon := LoadSentimentLexicon()
	if externalPath != "" {
		if err := lexicon.LoadExternalLexicon(externalPath); err != nil {
			return nil, fmt.Errorf("failed to load external lexicon: %w", err)
		}
	}
	return lexicon, nil
}

// LoadExternalLexicon reads a JSON ExternalLexicon from filepath and merges it.
func (sl *SentimentLexicon) LoadExternalLexicon(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}

	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	sl.Merge(external)
	return nil
}

// Merge adds or replaces the entries of data.
func (sl *SentimentLexicon) Merge(data ExternalLexicon) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	for _, group := range [][]WordEntry{data.Words, data.Positive, data.Negative} {
		for _, entry := range group {
			word := strings.ToLower(entry.Word)
			sl.words[word] = LexiconEntry{
				Word:       word,
				Sentiment:  clamp(entry.Sentiment, -1, 1),
				Confidence: entry.Confidence,
				Domain:     entry.Domain,
			}
		}
	}

	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = defaultIntensifier
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = defaultDiminisher
	}
	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

// GetSentiment returns the polarity of word, or 0 when the lexicon does not
// know it. Lookups ignore case.
func (sl *SentimentLexicon) GetSentiment(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.words[strings.ToLower(word)].Sentiment
}

// Lookup returns the full entry for word, ignoring case.
func (sl *SentimentLexicon) Lookup(word string) (LexiconEntry, bool) {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	entry, ok := sl.words[strings.ToLower(word)]
	return entry, ok
}

// IsNegation reports whether word negates what follows it.
func (sl *SentimentLexicon) IsNegation(word string) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.negations[strings.ToLower(word)]
}

// GetModifierStrength returns the factor by which word scales the next
// sentiment word: positive for intensifiers, negative for diminishers.
func (sl *SentimentLexicon) GetModifierStrength(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.modifiers[strings.ToLower(word)]
}

// AddCustomWord allows adding domain-specific words
func (sl *SentimentLexicon) AddCustomWord(word string, sentiment, confidence float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	word = strings.ToLower(word)
	sl.words[word] = LexiconEntry{
		Word:       word,
		Sentiment:  clamp(sentiment, -1, 1),
		Confidence: confidence,
		Domain:     "custom",
	}
}

// AddCustomModifier adds a custom modifier
func (sl *SentimentLexicon) AddCustomModifier(word string, strength float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.modifiers[strings.ToLower(word)] = strength
}

// AddCustomNegation adds a custom negation word
func (sl *SentimentLexicon) AddCustomNegation(word string) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.negations[strings.ToLower(word)] = true
}

// Size returns the number of words in the lexicon
func (sl *SentimentLexicon) Size() int {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return len(sl.words)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// englishWords maps a word to {sentiment, confidence}.
var englishWords = map[string][2]float64{
	// Strong positive words
	"excellent":   {0.9, 0.95},
	"amazing":     {0.85, 0.95},
	"wonderful":   {0.85, 0.95},
	"fantastic":   {0.85, 0.95},
	"outstanding": {0.9, 0.95},
	"perfect":     {0.95, 0.95},
	"brilliant":   {0.85, 0.95},
	"superb":      {0.85, 0.95},
	"magnificent": {0.9, 0.95},
	"delightful":  {0.85, 0.9},
	"glorious":    {0.85, 0.9},
	"joy":         {0.8, 0.9},
	"triumph":     {0.8, 0.9},

	// Moderate positive words
	"good":        {0.6, 0.9},
	"great":       {0.75, 0.9},
	"nice":        {0.5, 0.85},
	"love":        {0.8, 0.9},
	"loved":       {0.8, 0.9},
	"happy":       {0.7, 0.9},
	"happiness":   {0.7, 0.9},
	"beautiful":   {0.75, 0.9},
	"enjoy":       {0.65, 0.9},
	"enjoyed":     {0.65, 0.9},
	"like":        {0.5, 0.85},
	"pleasant":    {0.6, 0.9},
	"positive":    {0.6, 0.9},
	"best":        {0.85, 0.95},
	"better":      {0.5, 0.85},
	"fun":         {0.65, 0.9},
	"interesting": {0.5, 0.85},
	"awesome":     {0.8, 0.9},
	"hope":        {0.5, 0.8},
	"peace":       {0.6, 0.85},
	"kind":        {0.5, 0.7},
	"glad":        {0.6, 0.85},
	"grateful":    {0.7, 0.9},
	"proud":       {0.6, 0.85},
	"success":     {0.7, 0.9},
	"successful":  {0.7, 0.9},
	"win":         {0.6, 0.85},
	"strong":      {0.4, 0.7},
	"safe":        {0.4, 0.7},
	"calm":        {0.4, 0.7},
	"bright":      {0.4, 0.7},
	"warm":        {0.4, 0.7},
	"free":        {0.4, 0.7},
	"freedom":     {0.6, 0.85},
	"friend":      {0.5, 0.8},
	"laugh":       {0.6, 0.85},
	"smile":       {0.6, 0.85},
	"thank":       {0.5, 0.85},
	"thanks":      {0.5, 0.85},

	// Mild positive words
	"okay":         {0.2, 0.7},
	"fine":         {0.3, 0.75},
	"decent":       {0.4, 0.8},
	"satisfactory": {0.4, 0.85},

	// Strong negative words
	"terrible":   {-0.9, 0.95},
	"awful":      {-0.85, 0.95},
	"horrible":   {-0.85, 0.95},
	"disgusting": {-0.9, 0.95},
	"appalling":  {-0.9, 0.95},
	"dreadful":   {-0.85, 0.95},
	"atrocious":  {-0.9, 0.95},
	"abysmal":    {-0.95, 0.95},
	"evil":       {-0.85, 0.9},
	"cruel":      {-0.8, 0.9},
	"misery":     {-0.8, 0.9},

	// Moderate negative words
	"bad":           {-0.6, 0.9},
	"hate":          {-0.8, 0.9},
	"hated":         {-0.8, 0.9},
	"sad":           {-0.7, 0.9},
	"sadness":       {-0.7, 0.9},
	"ugly":          {-0.75, 0.9},
	"disappointing": {-0.7, 0.9},
	"disappointed":  {-0.7, 0.9},
	"poor":          {-0.65, 0.9},
	"wrong":         {-0.6, 0.85},
	"worst":         {-0.85, 0.95},
	"worse":         {-0.5, 0.85},
	"dislike":       {-0.5, 0.85},
	"negative":      {-0.6, 0.9},
	"annoying":      {-0.65, 0.9},
	"boring":        {-0.6, 0.85},
	"fail":          {-0.7, 0.9},
	"failed":        {-0.7, 0.9},
	"failure":       {-0.75, 0.9},
	"fear":          {-0.6, 0.85},
	"afraid":        {-0.6, 0.85},
	"angry":         {-0.7, 0.9},
	"pain":          {-0.65, 0.9},
	"hurt":          {-0.6, 0.85},
	"grief":         {-0.75, 0.9},
	"sorrow":        {-0.75, 0.9},
	"lonely":        {-0.6, 0.85},
	"cry":           {-0.5, 0.8},
	"death":         {-0.6, 0.8},
	"war":           {-0.5, 0.75},
	"danger":        {-0.5, 0.8},
	"problem":       {-0.4, 0.75},
	"lost":          {-0.4, 0.7},
	"weak":          {-0.4, 0.7},
	"tired":         {-0.3, 0.7},

	// Context-dependent words
	"cheap":   {-0.3, 0.6},
	"simple":  {0.1, 0.5},
	"fast":    {0.3, 0.6},
	"slow":    {-0.3, 0.6},
	"hard":    {-0.2, 0.5},
	"easy":    {0.3, 0.6},
	"complex": {-0.1, 0.4},
	"new":     {0.2, 0.5},
	"old":     {-0.2, 0.5},
}

var englishModifiers = map[string]float64{
	// Intensifiers (increase by factor)
	"very":         0.3,
	"extremely":    0.5,
	"absolutely":   0.5,
	"totally":      0.4,
	"really":       0.3,
	"so":           0.3,
	"quite":        0.2,
	"incredibly":   0.5,
	"remarkably":   0.4,
	"particularly": 0.3,
	"especially":   0.3,
	"super":        0.4,
	"utterly":      0.5,
	"completely":   0.4,
	"thoroughly":   0.4,

	// Diminishers (decrease by factor)
	"slightly":   -0.3,
	"somewhat":   -0.3,
	"rather":     -0.2,
	"fairly":     -0.1,
	"marginally": -0.4,
	"barely":     -0.5,
	"hardly":     -0.5,
	"scarcely":   -0.5,
}

var englishNegations = []string{
	"not", "no", "never", "neither", "nor", "cannot", "without",
	"nobody", "nothing", "nowhere", "none",
	"can't", "won't", "don't", "doesn't", "didn't", "isn't", "aren't",
	"wasn't", "weren't", "hasn't", "haven't", "hadn't", "wouldn't",
	"shouldn't", "couldn't",
}
