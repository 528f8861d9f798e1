package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Root is the directory, relative to the working directory, that on-disk
// overrides of the embedded prefabs are read from.
const Root = "prefabs"

//go:embed *.yaml
var specFS embed.FS

//go:embed scripts/*.tengo
var scriptFS embed.FS

// Load returns a YAML prefab. A file under Root wins over the embedded copy so
// tuning edits take effect without a rebuild.
func Load(name string) ([]byte, error) {
	return read(specFS, relPath(name))
}

// LoadScript returns a tengo skill script by bare name or any path ending in
// scripts/<name>.
func LoadScript(name string) ([]byte, error) {
	rel := relPath(name)
	if !strings.HasPrefix(rel, "scripts/") {
		rel = path.Join("scripts", rel)
	}
	return read(scriptFS, rel)
}

func read(embedded fs.FS, rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(Root, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return fs.ReadFile(embedded, rel)
}

// relPath strips a leading Root/ so callers may pass either form.
func relPath(name string) string {
	s := filepath.ToSlash(name)
	s, _ = strings.CutPrefix(s, Root+"/")
	return s
}
