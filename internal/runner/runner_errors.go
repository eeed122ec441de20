package runner

import (
	"fmt"
	"strings"

	"sqlsim/internal/db"
)

// classifyEngineError names an engine failure for reports and logs.
func classifyEngineError(exec *db.DB, err error) string {
	if err == nil {
		return ""
	}
	if db.IsTimeout(err) {
		return "timeout"
	}
	driver := "engine"
	if exec != nil && exec.Driver != "" {
		driver = exec.Driver
	}
	if code, ok := db.ErrorCode(err); ok {
		return fmt.Sprintf("%s_error_%d", driver, code)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection") || strings.Contains(msg, "bad conn") {
		return "connection_error"
	}
	return driver + "_error"
}
