package inventory

import (
	"path"
	"strings"
)

var categoryByExt = map[string]string{}

func init() {
	exts := map[string][]string{
		"Documents":   {".doc", ".docx", ".pdf", ".txt", ".rtf", ".odt", ".xls", ".xlsx", ".ppt", ".pptx", ".csv"},
		"Images":      {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".svg", ".ico", ".webp", ".raw"},
		"Videos":      {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v"},
		"Audio":       {".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"},
		"Archives":    {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"},
		"Code":        {".cs", ".js", ".ts", ".py", ".go", ".java", ".cpp", ".h", ".ps1", ".psm1", ".sh", ".json", ".xml", ".yaml", ".yml"},
		"Executables": {".exe", ".dll", ".msi", ".bat", ".cmd", ".com"},
		"Databases":   {".sql", ".mdf", ".ldf", ".db", ".sqlite"},
		"Logs":        {".log", ".evt", ".evtx"},
		"Temporary":   {".tmp", ".temp", ".bak", ".swp", ".cache"},
	}
	for category, list := range exts {
		for _, e := range list {
			categoryByExt[e] = category
		}
	}
}

// FileCategory classifies a file by extension.
func FileCategory(extension string) string {
	if c, ok := categoryByExt[strings.ToLower(extension)]; ok {
		return c
	}
	return "Other"
}

// AgeBucket buckets a file age in days for reporting.
func AgeBucket(ageDays int) string {
	switch {
	case ageDays <= 7:
		return "0-7 days"
	case ageDays <= 30:
		return "8-30 days"
	case ageDays <= 90:
		return "31-90 days"
	case ageDays <= 180:
		return "91-180 days"
	case ageDays <= 365:
		return "181-365 days"
	case ageDays <= 730:
		return "1-2 years"
	case ageDays <= 1825:
		return "2-5 years"
	default:
		return "5+ years"
	}
}

// SizeBucket buckets a file size for reporting.
func SizeBucket(sizeBytes int64) string {
	const (
		kib = int64(1) << 10
		mib = int64(1) << 20
		gib = int64(1) << 30
	)
	switch {
	case sizeBytes < kib:
		return "< 1 KB"
	case sizeBytes < mib:
		return "1 KB - 1 MB"
	case sizeBytes < 10*mib:
		return "1 MB - 10 MB"
	case sizeBytes < 100*mib:
		return "10 MB - 100 MB"
	case sizeBytes < 500*mib:
		return "100 MB - 500 MB"
	case sizeBytes < gib:
		return "500 MB - 1 GB"
	case sizeBytes < 5*gib:
		return "1 GB - 5 GB"
	case sizeBytes < 10*gib:
		return "5 GB - 10 GB"
	default:
		return "10+ GB"
	}
}

// Excluded reports whether a file name matches any exclude pattern.
// Patterns use shell-style globs ("*.tmp", "~$*").
func Excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
