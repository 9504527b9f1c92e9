package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver locates dictionary files relative to the places a user is
// likely to have put them.
type PathResolver struct {
	executableDir string
	workingDir    string
	configDir     string
}

// NewPathResolver resolves the executable, working and config directories
// for the named application.
func NewPathResolver(app string) (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	pr := &PathResolver{
		executableDir: execDir,
		workingDir:    cwd,
		configDir:     userConfigDir(app),
	}
	log.Debugf("PathResolver initialized: execDir=%s, cwd=%s, configDir=%s", execDir, cwd, pr.configDir)
	return pr, nil
}

func userConfigDir(app string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), app)
	}
	return filepath.Join(home, ".config", app)
}

// Candidates lists where a dictionary named by path may live, in the order
// they are tried. An absolute path is its only candidate.
func (pr *PathResolver) Candidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	return []string{
		filepath.Join(pr.workingDir, path),
		filepath.Join(pr.executableDir, path),
		filepath.Join(pr.executableDir, "data", filepath.Base(path)),
		filepath.Join(filepath.Dir(pr.executableDir), "data", filepath.Base(path)),
		filepath.Join(pr.configDir, "data", filepath.Base(path)),
	}
}

// ResolveFile returns the first candidate for path that exists.
func (pr *PathResolver) ResolveFile(path string) (string, error) {
	for _, candidate := range pr.Candidates(path) {
		if FileExists(candidate) {
			log.Debugf("Resolved %s to %s", path, candidate)
			return candidate, nil
		}
		log.Debugf("Dictionary candidate not found: %s", candidate)
	}
	return "", &os.PathError{Op: "resolve", Path: path, Err: os.ErrNotExist}
}
