package commands

import (
	"fmt"
	"io"
)

// RunVersion prints the application version.
func RunVersion(writer io.Writer, version string) error {
	_, err := fmt.Fprintf(writer, "actionserver %s\n", version)
	return err
}
