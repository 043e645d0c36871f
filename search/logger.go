package search

import "go.uber.org/zap"

// logger replaces the teacher's util.PrintError/PrintLog/PrintVerbose
// trio. Defaults to a no-op so importing this package without wiring a
// logger is safe; planner/executive call SetLogger with the structured
// logger they were configured with.
var logger = zap.NewNop()

// SetLogger installs the logger used by this package's diagnostics.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
