package export

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chromeAvailable() bool {
	if os.Getenv("CHROME_PATH") != "" {
		return true
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func TestPDF_RendersMarkup(t *testing.T) {
	if !chromeAvailable() {
		t.Skip("Chrome not available")
	}

	pdf, err := PDF(context.Background(), "<html><body><h1>Ada Lovelace</h1></body></html>")
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
