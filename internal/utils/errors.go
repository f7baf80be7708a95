package utils

import "strings"

// IsFatalError reports failures that a retry cannot fix.
func IsFatalError(err error) bool {
	errorStr := strings.ToLower(err.Error())

	// AWS authentication issues
	if strings.Contains(errorStr, "invalid credentials") || strings.Contains(errorStr, "access denied") ||
		strings.Contains(errorStr, "invalidaccesskeyid") || strings.Contains(errorStr, "nosuchbucket") {
		return true
	}

	// Local file issues
	if strings.Contains(errorStr, "no such file") || strings.Contains(errorStr, "permission denied") {
		return true
	}

	// System resource issues
	if strings.Contains(errorStr, "no space left") || strings.Contains(errorStr, "out of memory") {
		return true
	}

	return false
}
