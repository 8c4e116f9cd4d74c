package api

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
)

const (
	maxTargetLength   = 2048
	maxHostnameLength = 253
)

var (
	errTargetRequired    = errors.New("a page URL to analyze is required")
	errTargetTooLong     = fmt.Errorf("page URL too long (max %d characters)", maxTargetLength)
	errTargetHost        = errors.New("page URL has no host to analyze")
	errTargetUnreachable = errors.New("page is not publicly reachable")
	errTargetPath        = errors.New("page path must not contain '..' segments")
)

// hostnameRegex matches dot separated DNS labels
var hostnameRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// validateTarget checks that rawURL names a public http(s) page and returns
// it in the form the analyzer fetches: https is assumed when no scheme is
// given, the host is lowercased and the fragment is dropped.
func validateTarget(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", errTargetRequired
	}
	if len(rawURL) > maxTargetLength {
		return "", errTargetTooLong
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("page URL is malformed: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("cannot analyze %q pages: only http and https are supported", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", errTargetHost
	}
	if err := checkPublicHost(host); err != nil {
		return "", err
	}
	u.Host = strings.ToLower(u.Host)

	if strings.Contains(u.Path, "..") {
		return "", errTargetPath
	}

	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// checkPublicHost rejects hosts the analyzer must not be pointed at:
// loopback, private and link-local addresses and malformed names
func checkPublicHost(host string) error {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s is a loopback host", errTargetUnreachable, host)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		addr = addr.Unmap()
		switch {
		case addr.IsLoopback(), addr.IsUnspecified():
			return fmt.Errorf("%w: %s is a loopback address", errTargetUnreachable, host)
		case addr.IsPrivate(), addr.IsLinkLocalUnicast():
			return fmt.Errorf("%w: %s is a private address", errTargetUnreachable, host)
		}
		return nil
	}

	if len(host) > maxHostnameLength {
		return fmt.Errorf("%w: hostname longer than %d characters", errTargetHost, maxHostnameLength)
	}
	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("%w: %q is not a valid hostname", errTargetHost, host)
	}
	return nil
}
