// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package export serializes indicator slices for the download endpoint.
// Five formats are supported: json, stix, csv, txt, and elastic (bulk
// NDJSON for the Elasticsearch _bulk API).
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/models"
	"github.com/tomtom215/indicium/internal/stix"
)

// Format names accepted by the export endpoint.
const (
	FormatJSON    = "json"
	FormatSTIX    = "stix"
	FormatCSV     = "csv"
	FormatTXT     = "txt"
	FormatElastic = "elastic"
)

// DefaultElasticIndex is the bulk index name when none is configured.
const DefaultElasticIndex = "threats"

var csvHeader = []string{
	"ip_address",
	"confidence",
	"local_confidence",
	"external_confidence",
	"reported_at",
	"country_code",
	"isp",
	"stix_labels",
	"categories",
}

// Supported reports whether format names a known exporter.
func Supported(format string) bool {
	switch format {
	case FormatJSON, FormatSTIX, FormatCSV, FormatTXT, FormatElastic:
		return true
	}
	return false
}

// Extension returns the download filename extension for a format.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return "csv"
	case FormatTXT:
		return "txt"
	case FormatElastic:
		return "ndjson"
	default:
		return "json"
	}
}

// ContentType returns the response content type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSTIX:
		return models.STIXMediaType
	case FormatCSV:
		return "text/csv"
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatElastic:
		return "application/x-ndjson"
	default:
		return "application/json"
	}
}

// Write serializes indicators in the named format. txt includes per-line
// metadata and elastic targets the default index; use the per-format
// functions for other variants.
func Write(w io.Writer, format string, indicators []models.Indicator) error {
	switch format {
	case FormatJSON:
		return JSON(w, indicators)
	case FormatSTIX:
		return STIX(w, indicators)
	case FormatCSV:
		return CSV(w, indicators)
	case FormatTXT:
		return TXT(w, indicators, true)
	case FormatElastic:
		return Elastic(w, indicators, DefaultElasticIndex)
	default:
		return errs.NotFound("unknown export format %q", format)
	}
}

// JSON writes a pretty-printed {total, indicators} document.
func JSON(w io.Writer, indicators []models.Indicator) error {
	doc := struct {
		Total      int                `json:"total"`
		Indicators []models.Indicator `json:"indicators"`
	}{
		Total:      len(indicators),
		Indicators: indicators,
	}
	if doc.Indicators == nil {
		doc.Indicators = []models.Indicator{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// STIX writes the indicators as a pretty-printed STIX 2.1 bundle.
func STIX(w io.Writer, indicators []models.Indicator) error {
	data, err := json.MarshalIndent(stix.NewBundle(indicators), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stix export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// CSV writes one row per indicator with multi-valued cells joined by "|".
// An empty slice produces no output, not a bare header.
func CSV(w io.Writer, indicators []models.Indicator) error {
	if len(indicators) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range indicators {
		ind := &indicators[i]
		countryCode, isp := "", ""
		if ind.Geo != nil {
			countryCode = ind.Geo.CountryCode
			isp = ind.Geo.ISP
		}

		row := []string{
			ind.IP,
			strconv.Itoa(ind.FinalConfidence),
			confidenceCell(ind.LocalConfidence),
			confidenceCell(ind.ExternalConfidence),
			timeCell(ind.LastReportedAt),
			countryCode,
			isp,
			joinCell(stix.Labels(ind.Categories)),
			joinCell(ind.Categories),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// TXT writes one IP per line. With metadata each line is
// "<ip> # Confidence: <n>%", plus " Country: <cc>" when geo is present.
func TXT(w io.Writer, indicators []models.Indicator, withMetadata bool) error {
	for i := range indicators {
		ind := &indicators[i]
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		if !withMetadata {
			if _, err := io.WriteString(w, ind.IP); err != nil {
				return err
			}
			continue
		}

		line := fmt.Sprintf("%s # Confidence: %d%%", ind.IP, ind.FinalConfidence)
		if ind.Geo != nil && ind.Geo.CountryCode != "" {
			line += " Country: " + ind.Geo.CountryCode
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// elasticDoc is the per-indicator document for the bulk payload, shaped
// after the Elastic Common Schema threat fields.
type elasticDoc struct {
	Timestamp          string     `json:"@timestamp,omitempty"`
	IP                 string     `json:"ip"`
	Confidence         int        `json:"confidence"`
	LocalConfidence    *int       `json:"local_confidence"`
	ExternalConfidence *int       `json:"external_confidence"`
	Tags               []string   `json:"tags"`
	Geo                elasticGeo `json:"geo"`
	Network            elasticNet `json:"network"`
	Threat             struct {
		Indicator elasticIndicator `json:"indicator"`
	} `json:"threat"`
}

type elasticGeo struct {
	CountryISOCode string `json:"country_iso_code"`
}

type elasticNet struct {
	Name string `json:"name"`
}

type elasticIndicator struct {
	IP         string `json:"ip"`
	Confidence int    `json:"confidence"`
	Type       string `json:"type"`
}

// Elastic writes alternating index-action and document lines for the
// Elasticsearch _bulk API, newline-terminated.
func Elastic(w io.Writer, indicators []models.Indicator, indexName string) error {
	if indexName == "" {
		indexName = DefaultElasticIndex
	}

	for i := range indicators {
		ind := &indicators[i]

		meta := map[string]map[string]string{
			"index": {"_index": indexName, "_id": ind.IP},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal bulk action: %w", err)
		}

		doc := elasticDoc{
			Timestamp:          timeCell(ind.LastReportedAt),
			IP:                 ind.IP,
			Confidence:         ind.FinalConfidence,
			LocalConfidence:    ind.LocalConfidence,
			ExternalConfidence: ind.ExternalConfidence,
			Tags:               stix.Labels(ind.Categories),
		}
		if ind.Geo != nil {
			doc.Geo.CountryISOCode = ind.Geo.CountryCode
			doc.Network.Name = ind.Geo.ISP
		}
		doc.Threat.Indicator = elasticIndicator{
			IP:         ind.IP,
			Confidence: ind.FinalConfidence,
			Type:       indicatorType(ind),
		}
		docLine, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal bulk document: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n%s\n", metaLine, docLine); err != nil {
			return err
		}
	}
	return nil
}

func indicatorType(ind *models.Indicator) string {
	if ind.IsIPv6() {
		return "ipv6-addr"
	}
	return "ipv4-addr"
}

func confidenceCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func timeCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func joinCell(values []string) string {
	return strings.Join(values, "|")
}
