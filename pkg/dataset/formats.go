package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// Format identifies how a transaction source is encoded.
type Format int

const (
	FormatUnknown    Format = iota
	FormatTranscript        // student records: year {month code name credit grade}*
	FormatBasket            // integer items per line
	FormatLabeled           // arbitrary tokens per line
	FormatMsgpack           // binary snapshot
)

// FormatInfo contains metadata about a transaction file format
type FormatInfo struct {
	Format      Format
	Name        string
	Description string
	Extensions  []string
}

var supportedFormats = map[Format]FormatInfo{
	FormatTranscript: {
		Format:      FormatTranscript,
		Name:        "transcript",
		Description: "Student transcript records",
		Extensions:  []string{".csv"},
	},
	FormatBasket: {
		Format:      FormatBasket,
		Name:        "basket",
		Description: "Integer item baskets",
		Extensions:  []string{".dat", ".basket"},
	},
	FormatLabeled: {
		Format:      FormatLabeled,
		Name:        "labeled",
		Description: "Labeled item baskets",
		Extensions:  []string{".txt"},
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Name:        "msgpack",
		Description: "MessagePack transaction snapshot",
		Extensions:  []string{".mpk", ".msgpack"},
	},
}

func (f Format) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Name
	}
	return "unknown"
}

// ParseFormat reads a format name as written in the config file.
// "auto" and "" map to FormatUnknown, resolved later by DetectFormat.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatUnknown, nil
	}
	for _, info := range supportedFormats {
		if info.Name == strings.ToLower(name) {
			return info.Format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// DetectFormat guesses the format of a file from its extension, and for
// ambiguous text files from the shape of its first record.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var format Format
	for _, info := range supportedFormats {
		if slices.Contains(info.Extensions, ext) {
			format = info.Format
			break
		}
	}

	switch format {
	case FormatUnknown:
		return FormatUnknown, fmt.Errorf("%w: unable to detect format for file %s", ErrUnknownFormat, filename)
	case FormatTranscript:
		// .csv is also a common basket extension
		if line, err := firstRecord(filename); err == nil && !looksLikeTranscript(line) {
			log.Debugf("File %s does not look like transcripts, reading as baskets", filename)
			return FormatBasket, nil
		}
	}
	return format, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats ordered by Format.
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	slices.SortFunc(formats, func(a, b FormatInfo) int { return int(a.Format) - int(b.Format) })
	return formats
}

// firstRecord returns the first non-blank, non-comment line of a file.
func firstRecord(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("file %s has no records", filename)
}

// looksLikeTranscript checks for a year followed by whole 5-field groups.
func looksLikeTranscript(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 6 || (len(fields)-1)%5 != 0 {
		return false
	}
	_, err := parseTranscript(line, NewLabels())
	return err == nil
}
