package render

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestExecute_PageWithSprig(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html": {Data: []byte(`<h1>{{.Title | upper}}</h1>`)},
	}

	var out bytes.Buffer
	if err := New(fsys, false).Execute(&out, "index.html", map[string]string{"Title": "journal"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.String() != "<h1>JOURNAL</h1>" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestExecute_EscapesHTML(t *testing.T) {
	fsys := fstest.MapFS{"index.html": {Data: []byte(`{{.}}`)}}

	var out bytes.Buffer
	if err := New(fsys, false).Execute(&out, "index.html", "<script>"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.Contains(out.String(), "<script>") {
		t.Fatalf("output not escaped: %q", out.String())
	}
}

func TestExecute_Layout(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`{{define "layout"}}<main>{{template "content" .}}</main>{{end}}`)},
		"list.html":   {Data: []byte(`{{define "content"}}{{.}} rows{{end}}`)},
	}

	var out bytes.Buffer
	if err := New(fsys, false, "layout.html").Execute(&out, "list.html", 3); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.String() != "<main>3 rows</main>" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestExecute_FailingTemplate_WritesNothing(t *testing.T) {
	fsys := fstest.MapFS{"index.html": {Data: []byte(`before{{fail "broken"}}`)}}

	var out bytes.Buffer
	if err := New(fsys, false).Execute(&out, "index.html", nil); err == nil {
		t.Fatal("Execute() error = nil, want template failure")
	}
	if out.Len() != 0 {
		t.Fatalf("partial output written: %q", out.String())
	}
}

func TestExecute_CachesUnlessReloading(t *testing.T) {
	fsys := fstest.MapFS{"index.html": {Data: []byte(`v1`)}}

	cached := New(fsys, false)
	reloading := New(fsys, true)
	var out bytes.Buffer
	_ = cached.Execute(&out, "index.html", nil)
	_ = reloading.Execute(&out, "index.html", nil)

	fsys["index.html"] = &fstest.MapFile{Data: []byte(`v2`)}

	out.Reset()
	_ = cached.Execute(&out, "index.html", nil)
	if out.String() != "v1" {
		t.Errorf("cached output = %q, want v1", out.String())
	}

	out.Reset()
	_ = reloading.Execute(&out, "index.html", nil)
	if out.String() != "v2" {
		t.Errorf("reloaded output = %q, want v2", out.String())
	}
}

func TestExecute_MissingPage(t *testing.T) {
	if err := New(fstest.MapFS{}, false).Execute(&bytes.Buffer{}, "missing.html", nil); err == nil {
		t.Fatal("Execute() error = nil, want parse error")
	}
}
