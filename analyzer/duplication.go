package analyzer

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/minio/highwayhash"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"golang.org/x/net/html"
)

const (
	// minBlockLength is the length a block must exceed to be fingerprinted
	minBlockLength = 50
	excerptLength  = 100
)

// fingerprintKey keeps digests stable across runs
var fingerprintKey = []byte("webpage-analyzer-content-blocks!")

type digest [highwayhash.Size128]byte

// FindDuplicates fingerprints the text of every p, div and section element
// and reports each block whose text was already seen earlier in the page
func FindDuplicates(body string) models.DuplicationReport {
	doc, err := parseHTML(body)
	if err != nil {
		return models.DuplicationReport{Duplicates: []models.DuplicateEntry{}}
	}
	return findDuplicates(doc)
}

func findDuplicates(doc *html.Node) models.DuplicationReport {
	report := models.DuplicationReport{Duplicates: []models.DuplicateEntry{}}
	firstSeen := make(map[digest]string)

	for _, text := range collectBlocks(doc) {
		report.TotalBlocks++

		length := utf8.RuneCountInString(text)
		if length <= minBlockLength {
			continue
		}
		report.SubstantialBlocks++

		sum := fingerprint(text)
		original, ok := firstSeen[sum]
		if !ok {
			firstSeen[sum] = text
			continue
		}

		report.Duplicates = append(report.Duplicates, models.DuplicateEntry{
			Original:  truncate(original, excerptLength),
			Duplicate: truncate(text, excerptLength),
			Length:    length,
		})
	}

	report.DuplicateCount = len(report.Duplicates)
	return report
}

// CheckContentDuplication fetches the page and looks for repeated blocks
func (s *Analyzer) CheckContentDuplication(ctx context.Context, pageURL string) (models.DuplicationReport, error) {
	fr, err := s.Fetch(ctx, pageURL)
	if err != nil {
		return models.DuplicationReport{Duplicates: []models.DuplicateEntry{}}, err
	}
	return s.checkFetchedDuplication(fr), nil
}

func (s *Analyzer) checkFetchedDuplication(fr *FetchResult) models.DuplicationReport {
	report := models.DuplicationReport{Duplicates: []models.DuplicateEntry{}}
	if doc, err := fr.Document(); err == nil {
		report = findDuplicates(doc)
	}
	s.metrics.RecordDuplicateBlocks(report.DuplicateCount)
	s.log.Debug("Content duplication checked",
		"url", fr.URL,
		"blocks", report.TotalBlocks,
		"duplicates", report.DuplicateCount)
	return report
}

func fingerprint(text string) digest {
	return highwayhash.Sum128([]byte(text), fingerprintKey)
}

// collectBlocks returns the text of every block element in document order.
// Nested blocks are collected on their own as well as inside their parent.
func collectBlocks(doc *html.Node) []string {
	var blocks []string

	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "p", "div", "section":
				blocks = append(blocks, blockText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	return blocks
}

// blockText joins the trimmed text nodes under n, skipping script and style
func blockText(n *html.Node) string {
	var sb strings.Builder

	var traverse func(n *html.Node)
	traverse = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)

	return sb.String()
}
