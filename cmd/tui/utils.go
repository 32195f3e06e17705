package main

import "fmt"

// formatSize converts bytes to a human-readable string
func formatSize(bytes float64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
		PB = TB * 1024
	)
	switch {
	case bytes >= PB:
		return fmt.Sprintf("%.2f PB", bytes/PB)
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", bytes/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", bytes/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", bytes/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", bytes/KB)
	}
	return fmt.Sprintf("%.0f B", bytes)
}
