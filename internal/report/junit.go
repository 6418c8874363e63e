package report

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"serverest-suite/internal/models"
)

const JUnitFileName = "junit.xml"

type junitTestSuites struct {
	XMLName  xml.Name         `xml:"testsuites"`
	Name     string           `xml:"name,attr"`
	Tests    int              `xml:"tests,attr"`
	Failures int              `xml:"failures,attr"`
	Skipped  int              `xml:"skipped,attr"`
	Time     string           `xml:"time,attr"`
	Suites   []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      string          `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	Props     []junitProperty `xml:"properties>property,omitempty"`
	Cases     []junitTestCase `xml:"testcase"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *junitSkipped `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

type junitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitWriter writes junit.xml for CI test reporting.
type JUnitWriter struct {
	Dir string
}

func NewJUnitWriter(dir string) *JUnitWriter {
	return &JUnitWriter{Dir: dir}
}

func (w *JUnitWriter) Name() string {
	return "junit"
}

func (w *JUnitWriter) Write(_ context.Context, summary *models.RunSummary) error {
	data, err := xml.MarshalIndent(buildJUnit(summary), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal junit: %w", err)
	}
	return writeFile(w.Dir, JUnitFileName, append([]byte(xml.Header), append(data, '\n')...))
}

func buildJUnit(summary *models.RunSummary) junitTestSuites {
	out := junitTestSuites{
		Name:     "serverest-suite",
		Tests:    summary.Total(),
		Failures: summary.Failed,
		Skipped:  summary.Skipped,
		Time:     seconds(summary.Duration()),
	}

	index := make(map[string]int)
	for _, r := range summary.Results {
		i, ok := index[r.Suite]
		if !ok {
			i = len(out.Suites)
			index[r.Suite] = i
			out.Suites = append(out.Suites, junitTestSuite{
				Name:      r.Suite,
				Timestamp: summary.Started.UTC().Format(time.RFC3339),
				Props: []junitProperty{
					{Name: "env", Value: summary.Env},
					{Name: "baseUrl", Value: summary.BaseURL},
					{Name: "runId", Value: summary.RunID},
				},
			})
		}
		ts := &out.Suites[i]

		tc := junitTestCase{
			Name:      r.ID + " " + r.Name,
			Classname: r.Suite,
			Time:      seconds(r.Duration),
		}
		switch r.Status {
		case models.StatusFailed:
			tc.Failure = &junitFailure{Message: r.Message, Type: r.ErrorCode, Text: r.Message}
			ts.Failures++
		case models.StatusSkipped:
			tc.Skipped = &junitSkipped{Message: r.Message}
			ts.Skipped++
		}
		ts.Tests++
		ts.Cases = append(ts.Cases, tc)
	}

	bySuite := summary.BySuite()
	for i := range out.Suites {
		var d time.Duration
		for _, tc := range bySuite[out.Suites[i].Name] {
			d += tc.Duration
		}
		out.Suites[i].Time = seconds(d)
	}
	return out
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func writeFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
