// Package modes parses power mode definitions out of an nvpmodel
// configuration file.
package modes

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A mode definition looks like
//
//	< POWER_MODEL ID=0 NAME=MODE_15W >
//
// one per line, whitespace-tolerant around the tokens. Everything else in
// the file (CPU/GPU clock tables, comments, ...) is ignored.
var recordPattern = regexp.MustCompile(`^\s*<\s*POWER_MODEL\s+ID\s*=\s*(\d+)\s+NAME\s*=\s*(.+)$`)

// Record is a single power mode definition.
type Record struct {
	ID   string
	Name string
}

// Table maps mode IDs to display names. It is built once at startup and
// never mutated afterwards.
type Table map[string]string

// ParseLine extracts a mode record from one config line. The second return
// value is false when the line is not a mode definition.
func ParseLine(line string) (Record, bool) {
	m := recordPattern.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}

	// The name capture runs to the end of the line, so it may still carry
	// the closing bracket and quoting from the config file.
	name := strings.TrimSpace(m[2])
	name = strings.TrimSuffix(name, ">")
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.TrimSpace(name)

	return Record{ID: m[1], Name: name}, true
}

// Load reads the config file at path and returns the mode table. An error
// is returned when the file cannot be read or contains no mode definitions.
func Load(path string) (Table, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open nvpmodel config %s", path)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close config file %s", path)
		}
	}(fp)

	table := Table{}

	scanner := bufio.NewScanner(fp)
	for scanner.Scan() {
		rec, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		table[rec.ID] = rec.Name
	}
	if err := scanner.Err(); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read nvpmodel config %s", path)
	}

	if len(table) == 0 {
		return nil, pkgerrors.Errorf("no power modes found in %s", path)
	}

	logrus.WithField("modes", len(table)).Debugf("loaded nvpmodel config %s", path)

	return table, nil
}

// Name returns the display name for a mode ID.
func (t Table) Name(id string) (string, bool) {
	name, ok := t[id]
	return name, ok
}

// IDs returns all mode IDs, numerically sorted when possible. Map iteration
// order would shuffle the menu between renders.
func (t Table) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Records returns the table as ordered (id, name) records, in IDs() order.
func (t Table) Records() []Record {
	recs := make([]Record, 0, len(t))
	for _, id := range t.IDs() {
		recs = append(recs, Record{ID: id, Name: t[id]})
	}
	return recs
}
