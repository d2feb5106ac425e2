package version

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Set at build time with -ldflags "-X jasper-launcher/internal/application/version.version=1.2.3"
	version = "0.0.0"
	// Matches "1.2.3" in "v1.2.3-beta"
	versionRegex = regexp.MustCompile(`(\d+\.\d+\.\d+)`)
)

const product = "jasper-launcher"

func GetVersion() string {
	return version
}

// UserAgent identifies the launcher in outgoing HTTP requests.
func UserAgent() string {
	return product + "/" + version
}

func GetNumericVersion() int {
	return ParseNumericVersion(version)
}

// ParseNumericVersion packs major.minor.patch into one comparable integer,
// three decimal digits per part.
func ParseNumericVersion(semVer string) int {
	if matches := versionRegex.FindStringSubmatch(semVer); len(matches) > 1 {
		semVer = matches[1]
	}

	result := 0
	for _, part := range strings.Split(semVer, ".") {
		num, _ := strconv.Atoi(part)
		result = result*1000 + num
	}
	return result
}
