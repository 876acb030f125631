package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// ParseUpload reads an uploaded initial-stock workbook. The first row is the header.
// Column presence is checked by the reconciler, not here.
func ParseUpload(r io.Reader) (models.UploadTable, error) {
	rows, err := Read(r)
	if err != nil {
		return models.UploadTable{}, fmt.Errorf("%w: %v", models.ErrFormat, err)
	}

	if len(rows) == 0 {
		return models.UploadTable{}, fmt.Errorf("%w: workbook has no header row", models.ErrSchema)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	return models.UploadTable{Header: header, Rows: rows[1:]}, nil
}
