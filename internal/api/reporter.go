package api

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/ukane-philemon/srecords/internal/db"
	"github.com/ukane-philemon/srecords/internal/report"
)

const (
	actionSave = "save"
	actionShow = "show"
)

var reporterTmpl = template.Must(template.New("reporter").Parse(`<!DOCTYPE html>
<html>
<head><title>Student Marks Analyzer</title></head>
<body>
<h1>Student Marks Analyzer</h1>
<p>Enter the names and marks of students (minimum 1 student).</p>
<form method="get" action="/reporter">
<label>How many students? <input type="number" name="num_students" min="1" max="{{.MaxEntries}}" step="1" value="{{.NumStudents}}"></label>
<button type="submit">Update</button>
</form>
<form method="post" action="/reporter">
<input type="hidden" name="num_students" value="{{.NumStudents}}">
{{range .Slots}}<p>
<label>Enter name of student {{.Number}}: <input type="text" name="students.{{.Index}}.name" placeholder="{{.DefaultName}}"></label>
<label>Enter mark: <input type="number" name="students.{{.Index}}.mark" step="any" max="{{$.MaxMark}}" value="0"></label>
</p>
{{end}}<label><input type="checkbox" name="show_records" value="on"{{if .ShowRecords}} checked{{end}}> Show all saved records</label>
<button type="submit" name="action" value="save">Calculate &amp; Save</button>
<button type="submit" name="action" value="show">Show records</button>
</form>
{{if .ShowRecords}}<h2>Saved records</h2>
<pre>{{.History}}</pre>{{end}}
</body>
</html>
`))

type reporterSlot struct {
	Index       int
	Number      int
	DefaultName string
}

type reporterPageData struct {
	NumStudents int
	MaxEntries  int
	MaxMark     float64
	Slots       []reporterSlot
	ShowRecords bool
	History     string
}

type reporterFormEntry struct {
	Name string `form:"name" validate:"omitempty,alphaspace"`
	Mark string `form:"mark"`
}

type reporterForm struct {
	NumStudents int                 `form:"num_students" validate:"min=1,max=500"`
	Students    []reporterFormEntry `form:"students" validate:"dive"`
	ShowRecords string              `form:"show_records"`
	Action      string              `form:"action" validate:"omitempty,oneof=save show"`
}

// entries returns exactly NumStudents entries. Missing slots are blank with a
// zero mark, extra slots are dropped.
func (f *reporterForm) entries() ([]report.Entry, error) {
	entries := make([]report.Entry, f.NumStudents)
	for i := range entries {
		if i >= len(f.Students) {
			continue
		}

		slot := f.Students[i]
		entries[i].Name = slot.Name
		if strings.TrimSpace(slot.Mark) == "" {
			continue
		}

		mark, err := strconv.ParseFloat(strings.TrimSpace(slot.Mark), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: mark of student %d must be a number", db.ErrInvalidRequest, i+1)
		}
		entries[i].Mark = mark
	}
	return entries, nil
}

// checkSlotIndexes rejects students.<i>.* keys whose index is not a number
// below report.MaxEntries.
func checkSlotIndexes(values url.Values) error {
	for key := range values {
		rest, found := strings.CutPrefix(key, "students.")
		if !found {
			continue
		}

		index, _, _ := strings.Cut(rest, ".")
		i, err := strconv.Atoi(index)
		if err != nil || i < 0 || i >= report.MaxEntries {
			return fmt.Errorf("%w: invalid student slot %q, slots range from 0 to %d",
				db.ErrInvalidRequest, index, report.MaxEntries-1)
		}
	}
	return nil
}

func (s *Server) reporterPage(w http.ResponseWriter, r *http.Request) {
	numStudents := 1
	if n := r.URL.Query().Get("num_students"); n != "" {
		parsed, err := strconv.Atoi(n)
		if err != nil || parsed < 1 || parsed > report.MaxEntries {
			handleError(w, r, fmt.Errorf("%w: num_students must be between 1 and %d", db.ErrInvalidRequest, report.MaxEntries))
			return
		}
		numStudents = parsed
	}

	data := &reporterPageData{
		NumStudents: numStudents,
		MaxEntries:  report.MaxEntries,
		MaxMark:     report.MaxMark,
		ShowRecords: r.URL.Query().Get("show_records") == "on",
	}
	for i := 0; i < numStudents; i++ {
		data.Slots = append(data.Slots, reporterSlot{Index: i, Number: i + 1, DefaultName: report.DefaultName(i)})
	}

	if data.ShowRecords {
		batches, err := s.reporter.History(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		data.History = report.RenderHistory(batches)
	}

	var buf bytes.Buffer
	if err := reporterTmpl.Execute(&buf, data); err != nil {
		handleError(w, r, fmt.Errorf("reporterTmpl.Execute error: %w", err))
		return
	}

	render.Status(r, http.StatusOK)
	render.HTML(w, r, buf.String())
}

// submitReporterForm handles the reporter form and responds with the
// rendered text report.
func (s *Server) submitReporterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handleError(w, r, bodyError(err))
		return
	}

	// Slot indexes are checked before decoding, the form decoder grows the
	// slice up to the highest index it sees.
	if err := checkSlotIndexes(r.PostForm); err != nil {
		handleError(w, r, err)
		return
	}

	var form reporterForm
	if err := render.DecodeForm(strings.NewReader(r.PostForm.Encode()), &form); err != nil {
		handleError(w, r, fmt.Errorf("%w: malformed form: %v", db.ErrInvalidRequest, err))
		return
	}

	if err := s.validateRequest(&form); err != nil {
		handleError(w, r, err)
		return
	}

	showRecords := form.ShowRecords == "on" || form.Action == actionShow
	if form.Action != actionSave && !showRecords {
		handleError(w, r, fmt.Errorf("%w: nothing to do, choose save or show records", db.ErrInvalidRequest))
		return
	}

	var out strings.Builder
	if form.Action == actionSave {
		entries, err := form.entries()
		if err != nil {
			handleError(w, r, err)
			return
		}

		analysis, err := s.reporter.Submit(r.Context(), entries)
		if err != nil {
			handleError(w, r, err)
			return
		}

		out.WriteString(analysis.Text())
		out.WriteString("Marks and names saved.\n")
	}

	if showRecords {
		batches, err := s.reporter.History(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}

		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(report.RenderHistory(batches))
	}

	render.Status(r, http.StatusOK)
	render.PlainText(w, r, out.String())
}
