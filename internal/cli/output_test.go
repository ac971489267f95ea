package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trajectory/internal/trajectory"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
		RunID:  "run-1",
	}

	err := formatter.Success(map[string]int{"records": 5})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.RunID)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(string(trajectory.ErrCodeSourceNotFound), "file ./data.npy not found or unreadable", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SOURCE_NOT_FOUND", resp.Error.Code)
	assert.Empty(t, resp.RunID)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("INVALID_OBJECT_ID", "abc is not a valid object_id", map[string]string{"id": "abc"}))
	assert.Contains(t, buf.String(), "Error [INVALID_OBJECT_ID]: abc is not a valid object_id")
	assert.NotContains(t, buf.String(), "Details:")

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("INVALID_OBJECT_ID", "abc is not a valid object_id", map[string]string{"id": "abc"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_PrintfGroupsNumbers(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	formatter.Printf("Records: %d\n", 1234567)
	assert.Equal(t, "Records: 1,234,567\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: diag,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Loading %s", "data.npy")

			assert.Empty(t, out.String(), "diagnostics never go to stdout")
			if tt.wantLog {
				assert.Contains(t, diag.String(), "Loading data.npy")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitFailure, "REDUCER_FAILURE", errors.New("boom"))
	assert.Equal(t, "REDUCER_FAILURE: boom", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitCodeFor(t *testing.T) {
	tests := map[trajectory.ErrorCode]int{
		trajectory.ErrCodeSourceNotFound:  ExitCommandError,
		trajectory.ErrCodeSourceMalformed: ExitCommandError,
		trajectory.ErrCodeInvalidObjectID: ExitCommandError,
		trajectory.ErrCodeNoActiveSubset:  ExitFailure,
		trajectory.ErrCodeReducerFailure:  ExitFailure,
		trajectory.ErrCodeEmptySubset:     ExitFailure,
	}

	for code, want := range tests {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, want, exitCodeFor(&trajectory.Error{Code: code}))
		})
	}
}
