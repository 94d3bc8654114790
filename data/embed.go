// Package data embeds the reference corpus frequency tables found in corpora/
// at build time. The repository ships none; see corpora/README.md.
package data

import "embed"

//go:embed corpora
var Corpora embed.FS

// CorporaDir is the directory inside Corpora that holds the tables.
const CorporaDir = "corpora"
