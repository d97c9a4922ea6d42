// internal/app/system/csvutil/roster.go
package csvutil

import (
	"encoding/csv"
	"io"
	"time"
)

// RosterRow is one member line in an exported family roster.
type RosterRow struct {
	Name     string
	Email    string
	JoinedAt time.Time
}

// WriteRoster writes the member roster as CSV with a header row. Joined dates
// are formatted as YYYY-MM-DD; a zero time leaves the column empty.
func WriteRoster(w io.Writer, rows []RosterRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Name", "Email", "Joined"}); err != nil {
		return err
	}
	for _, row := range rows {
		joined := ""
		if !row.JoinedAt.IsZero() {
			joined = row.JoinedAt.UTC().Format("2006-01-02")
		}
		if err := cw.Write([]string{row.Name, row.Email, joined}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
