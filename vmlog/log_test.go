package vmlog

import "testing"

func TestRecordLogs(t *testing.T) {
	RecordLogs()
	EnableModule(Dispatch)
	Trace(Dispatch, "hello world")
	recs := GetRecordedLogs()
	if len(recs) == 0 {
		t.Fatalf("expected at least one recorded log line")
	}
}

func TestModuleGating(t *testing.T) {
	RecordLogs()
	DisableModule(Monitor)
	Trace(Monitor, "should not appear")
	if got := len(GetRecordedLogs()); got != 0 {
		t.Fatalf("expected no records for a disabled module, got %d", got)
	}
}
