// Package source loads artist records from a folder of tabular files.
package source

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/purplemusic/channels/country"
	"github.com/purplemusic/channels/data"
	"github.com/purplemusic/channels/errlog"
	"github.com/xuri/excelize/v2"
)

// MBIDs are UUIDs; anything shorter than this can't be one and is noise
// from a half-filled spreadsheet row.
const minMBIDLength = 5

// Exported column names vary between the spreadsheets people hand us, so
// each field accepts a few aliases; first match wins, case-insensitively.
var (
	mbidAliases    = []string{"mbid", "artist_mbid", "gid"}
	nameAliases    = []string{"name", "artist", "artist_name"}
	countryAliases = []string{"country", "country_code"}
)

// Load reads every .csv/.xlsx/.xls file in folder and returns the combined
// artist records, deduplicated by MBID with the last-seen row winning.
// Files are read in name order so "last" is deterministic. A file that
// can't be read or has no usable mbid/name column is logged and skipped;
// only a missing folder is fatal.
func Load(folder string, errs *errlog.Log) ([]data.ArtistRecord, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("error reading input folder '%s': %w", folder, err)
	}

	var all []data.ArtistRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		path := filepath.Join(folder, name)

		var rows [][]string
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv":
			rows, err = readCSV(path)
		case ".xlsx", ".xls":
			rows, err = readExcel(path)
		default:
			continue
		}
		if err != nil {
			errs.Printf("can't read %s: %v", name, err)
			continue
		}

		records, err := fromRows(rows)
		if err != nil {
			errs.Printf("skipping %s: %v", name, err)
			continue
		}

		log.Printf("%s: %d records", name, len(records))
		all = append(all, records...)
	}

	return dedupe(all), nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// fromRows turns a header row plus data rows into records, skipping rows
// without a plausible MBID.
func fromRows(rows [][]string) ([]data.ArtistRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	header := rows[0]
	mbidCol := findColumn(header, mbidAliases)
	nameCol := findColumn(header, nameAliases)
	countryCol := findColumn(header, countryAliases)
	if mbidCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("no mbid or name column")
	}

	var records []data.ArtistRecord
	for _, row := range rows[1:] {
		mbid := strings.TrimSpace(cell(row, mbidCol))
		if len(mbid) < minMBIDLength {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(cell(row, countryCol)))
		records = append(records, data.ArtistRecord{
			MBID:        mbid,
			Name:        strings.TrimSpace(cell(row, nameCol)),
			CountryCode: code,
			CountryName: country.Name(code),
		})
	}
	return records, nil
}

func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), alias) {
				return i
			}
		}
	}
	return -1
}

// cell tolerates ragged rows; excel files in particular drop trailing
// empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// dedupe keeps exactly one record per MBID, the last one seen, preserving
// first-seen order.
func dedupe(records []data.ArtistRecord) []data.ArtistRecord {
	byMBID := map[string]data.ArtistRecord{}
	var order []string
	for _, rec := range records {
		if _, seen := byMBID[rec.MBID]; !seen {
			order = append(order, rec.MBID)
		}
		byMBID[rec.MBID] = rec
	}

	unique := make([]data.ArtistRecord, 0, len(order))
	for _, mbid := range order {
		unique = append(unique, byMBID[mbid])
	}
	if len(records) != len(unique) {
		log.Printf("found %d records, %d after deduplication", len(records), len(unique))
	}
	return unique
}
