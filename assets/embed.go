package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed words.txt
var wordsFS embed.FS

//go:embed sql/*.sql
var sqlFS embed.FS

func readLines(name string) ([]string, error) {
	f, err := wordsFS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// DefaultWords returns the embedded fallback dictionary.
func DefaultWords() ([]string, error) {
	return readLines("words.txt")
}

// Migrations exposes the embedded sql/ directory.
func Migrations() fs.FS {
	sub, _ := fs.Sub(sqlFS, "sql")
	return sub
}
