package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sjellis/flowconv/internal/schema"
)

// LoadError represents an error that occurred while loading inputs.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCatalog reads and parses a node catalog file into a schema registry.
// Parse warnings (skipped malformed classes) are returned alongside.
func LoadCatalog(path string) (*schema.Registry, []schema.ParseWarning, error) {
	if path == "" {
		return nil, nil, &LoadError{Code: ErrCodeBadCatalog, Message: "no catalog given (use --catalog or the config file)"}
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}
	}
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading catalog %s: %v", path, err)}
	}

	reg, warnings, err := schema.ParseCatalog(data)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeBadCatalog, Message: fmt.Sprintf("parsing catalog %s: %v", path, err)}
	}
	return reg, warnings, nil
}

// LoadWorkflow reads a workflow document. "-" reads stdin.
func LoadWorkflow(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading stdin: %v", err)}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("workflow not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading workflow %s: %v", path, err)}
	}
	return data, nil
}
