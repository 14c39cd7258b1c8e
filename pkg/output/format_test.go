package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/payout-simulator/internal/analysis"
	"github.com/iwvelando/payout-simulator/internal/config"
	"go.uber.org/zap"
)

func testReport(t *testing.T) *analysis.Report {
	t.Helper()
	conf := config.Default()
	conf.Structure.RollingAverage.Enabled = false
	report, err := analysis.Run(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("analysis.Run() error = %v", err)
	}
	return report
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, testReport(t)); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"--- Payout for structure Balanced Model and profile Default Profile ---",
		"Month | Sales",
		"Total payout:           €13.840,00",
		"Total commission:       €5.140,00",
		"--- Risk:",
		"--- Philosophy ---",
		"Implement 3-month rolling average",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	output := CsvString(testReport(t))
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) != 14 {
		t.Fatalf("expected 14 lines (header, 12 months, total), got %d", len(lines))
	}
	if lines[0] != `"month","sales","commission","quarterly bonus","continuity bonus","total"` {
		t.Errorf("unexpected header %s", lines[0])
	}
	if lines[1] != `"1","20000.00","200.00","0.00","0.00","200.00"` {
		t.Errorf("unexpected first month %s", lines[1])
	}
	if lines[3] != `"3","25000.00","300.00","1200.00","0.00","1500.00"` {
		t.Errorf("unexpected third month %s", lines[3])
	}
	if lines[13] != `"total","332000.00","5140.00","7600.00","1100.00","13840.00"` {
		t.Errorf("unexpected total row %s", lines[13])
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, testReport(t)); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"payout", "elasticity", "roi", "ranges", "risk", "philosophy", "recommendations"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON output missing key %q", key)
		}
	}
}

func TestWrite(t *testing.T) {
	report := testReport(t)
	for _, f := range []string{"pretty", "csv", "json"} {
		var buf bytes.Buffer
		if err := Write(&buf, f, report); err != nil {
			t.Errorf("Write(%s) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) produced no output", f)
		}
	}
	if err := Write(&bytes.Buffer{}, "xml", report); err == nil {
		t.Error("Write(xml) expected error")
	}
}
