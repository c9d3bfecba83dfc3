package persistence

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ExportTicks writes rows as zstd-compressed JSON lines, one tick per line.
func ExportTicks(w io.Writer, rows []TickRow) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			enc.Close()
			return err
		}
		if _, err := bw.Write(b); err != nil {
			enc.Close()
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadTicks decodes a stream written by ExportTicks.
func ReadTicks(r io.Reader) ([]TickRow, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var rows []TickRow
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var row TickRow
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}
