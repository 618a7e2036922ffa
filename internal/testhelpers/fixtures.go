package testhelpers

import (
	"os"
	"path/filepath"
	"runtime"
)

// FixturePath returns the absolute path of a file under testhelpers/fixtures.
func FixturePath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "fixtures", name)
}

func LoadFixture(name string) ([]byte, error) {
	return os.ReadFile(FixturePath(name))
}
