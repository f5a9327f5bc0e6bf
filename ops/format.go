package ops

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Format controls the response rendering format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func formatFromRequest(r *http.Request, def Format) Format {
	if r == nil || r.URL == nil {
		return def
	}
	switch r.URL.Query().Get("format") {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return def
	}
}

func normalizeFormat(f Format) Format {
	if f != FormatText && f != FormatJSON {
		return FormatText
	}
	return f
}

// KV is one line of a report section.
type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Section is a named group of report lines.
type Section struct {
	Name  string `json:"name"`
	Items []KV   `json:"items"`
}

type response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// readOnly answers 405 for anything but GET/HEAD. It reports whether the handler
// should continue.
func readOnly(w http.ResponseWriter, r *http.Request, f Format) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	write(w, r, f, http.StatusMethodNotAllowed, response{Error: "method not allowed"}, nil)
	return false
}

// write renders resp. text renders the success body in text mode; errors are a single line.
func write(w http.ResponseWriter, r *http.Request, f Format, code int, resp response, text func(*strings.Builder)) {
	w.Header().Set("Cache-Control", "no-store")
	if f == FormatJSON {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if r.Method == http.MethodHead {
		return
	}
	if !resp.OK || text == nil {
		msg := resp.Error
		if msg == "" {
			msg = "error"
		}
		_, _ = w.Write([]byte(msg + "\n"))
		return
	}
	var b strings.Builder
	b.Grow(512)
	text(&b)
	_, _ = w.Write([]byte(b.String()))
}

// writeLine appends "section\tkey\tvalue\n"; lines with an empty part are skipped.
func writeLine(b *strings.Builder, section, key, value string) {
	if section == "" || key == "" || value == "" {
		return
	}
	b.WriteString(section)
	b.WriteByte('\t')
	b.WriteString(key)
	b.WriteByte('\t')
	b.WriteString(oneLine(value))
	b.WriteByte('\n')
}

func writeSections(b *strings.Builder, sections []Section) {
	for _, s := range sections {
		for _, kv := range s.Items {
			writeLine(b, s.Name, kv.Key, kv.Value)
		}
	}
}

func oneLine(s string) string {
	if !strings.ContainsAny(s, "\t\r\n") {
		return s
	}
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(s)
}
