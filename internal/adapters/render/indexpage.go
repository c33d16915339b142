package render

import (
	"fmt"
	"html/template"
	"io"

	"dandiscope/internal/core/domain"
)

// IndexPageRenderer renders the plot selector page linking every generated
// grid artifact.
type IndexPageRenderer struct {
	tpl *template.Template
}

// NewIndexPageRenderer creates an index page renderer
func NewIndexPageRenderer() *IndexPageRenderer {
	return &IndexPageRenderer{
		tpl: template.Must(template.New("index").Parse(indexTpl)),
	}
}

// RenderIndex writes the selector page. Link order is preserved: the
// overview first, then one entry per subject.
func (r *IndexPageRenderer) RenderIndex(links []domain.PageLink, w io.Writer) error {
	if err := r.tpl.Execute(w, links); err != nil {
		return fmt.Errorf("failed to render index page: %w", err)
	}
	return nil
}

const indexTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>DANDI Interactive Plot Selector</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1280px;margin:0 auto;padding:1rem}
header{display:flex;justify-content:space-between;align-items:center;margin-bottom:1rem;flex-wrap:wrap;gap:8px}
select{font-size:1rem;padding:6px;border-radius:6px;border:1px solid #ddd;min-width:260px}
iframe{width:100%;height:720px;border:1px solid #ddd;border-radius:8px;background:#fff}
a{margin-left:10px}
.muted, small{color:#666}
</style>
<header>
  <div>
    <h2 style="margin:0">DANDI Interactive Plot Selector</h2>
    <small class="muted">Pick a plot to load it below</small>
  </div>
  <div>
    <select id="plotSelect" aria-label="Plots">
    {{- range . }}
      <option value="{{.Path}}">{{.Label}}</option>
    {{- end }}
    </select>
    <a id="openLink" href="#" target="_blank">Open in new tab</a>
  </div>
</header>

<iframe id="plotFrame" title="Selected plot"></iframe>

<script>
(function(){
  var select = document.getElementById('plotSelect');
  var frame = document.getElementById('plotFrame');
  var open = document.getElementById('openLink');
  function load(){
    frame.src = select.value;
    open.href = select.value;
  }
  select.addEventListener('change', load);
  if (select.options.length) { load(); }
})();
</script>
`
