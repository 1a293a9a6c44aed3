package alsasync

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// hexLineWidth is the number of bytes per hex dump record.
const hexLineWidth = 64

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return l
}

// hexLines formats b as space separated hex bytes, hexLineWidth bytes per line.
func hexLines(b []byte) []string {
	var lines []string
	var sb strings.Builder

	for i, v := range b {
		fmt.Fprintf(&sb, "%02x ", v)
		if (i+1)%hexLineWidth == 0 {
			lines = append(lines, strings.TrimSpace(sb.String()))
			sb.Reset()
		}
	}

	if sb.Len() > 0 {
		lines = append(lines, strings.TrimSpace(sb.String()))
	}

	return lines
}
