package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

var exitCodes = map[models.Code]int{
	models.CodeInvalidInput:          2,
	models.CodeTranscriptUnavailable: 3,
	models.CodeModelError:            4,
	models.CodeAllChunksFailed:       4,
	models.CodeCancelled:             130,
}

// ExitCode maps err to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[models.CodeOf(err)]; ok {
		return code
	}
	return 1
}

// PrintError writes a one-line, colored error with its stable code
func PrintError(w io.Writer, err error) {
	code := models.CodeOf(err)

	message := err.Error()
	var e *models.Error
	if errors.As(err, &e) {
		message = e.Message
		if e.Err != nil {
			message += ": " + e.Err.Error()
		}
	}

	fmt.Fprintf(w, "%s %s %s\n",
		color.New(color.FgRed, color.Bold).Sprint("Error:"),
		color.YellowString("[%s]", code),
		message)
}
