package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// errorEnvelope is the JSON shape of a fatal error.
type errorEnvelope struct {
	Error string `json:"error"`
}

// WriteError reports err for the user. Plain output goes to stderr as
// "Error: <message>"; JSON output goes to stdout as {"error": "<message>"}.
func WriteError(stdout, stderr io.Writer, format Format, err error) {
	if err == nil {
		return
	}
	if format == FormatJSON {
		data, marshalErr := json.Marshal(errorEnvelope{Error: err.Error()})
		if marshalErr == nil {
			_, _ = fmt.Fprintln(stdout, string(data))
			return
		}
	}
	_, _ = fmt.Fprintf(stderr, "Error: %s\n", err)
}
