package notion

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jcorbin/mdnotion/internal/textio"
)

// LoadToken returns the integration token from the envName environment
// variable, or else from a dotenv file named fileName in the working
// directory or any of its parents.
func LoadToken(envName, fileName string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return LoadTokenFrom(wd, envName, fileName)
}

// LoadTokenFrom is LoadToken searching for the dotenv file from dir.
func LoadTokenFrom(dir, envName, fileName string) (string, error) {
	if token := strings.TrimSpace(os.Getenv(envName)); token != "" {
		return token, nil
	}
	if fileName != "" {
		info, path, err := textio.FindUpFrom(dir, fileName)
		if err != nil {
			return "", err
		}
		if info != nil {
			env, err := godotenv.Read(path)
			if err != nil {
				return "", fmt.Errorf("read %v: %w", path, err)
			}
			if token := strings.TrimSpace(env[envName]); token != "" {
				return token, nil
			}
		}
	}
	return "", fmt.Errorf("%w: set %v or add it to %v", ErrNoToken, envName, fileName)
}
