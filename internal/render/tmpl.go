package render

// pageTemplate is the self-contained table page: inline CSS themes per
// brand, inline JS for search/sort/pagination/export, and a single CDN
// dependency (html2canvas) for PNG export.
const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/html2canvas@1.4.1/dist/html2canvas.min.js"></script>
</head>
<body style="margin:0; overflow:auto;">

<section class="tp-table-embed {{.Brand.CSSClass}} {{.FooterAlignClass}} {{.CellAlignClass}}">
<style>
.tp-table-embed, .tp-table-embed * { box-sizing:border-box; font-family:inherit; }
.tp-table-embed {
  width:100%; max-width:100%; margin:0;
  font:14px/1.35 Inter,system-ui,-apple-system,"Segoe UI",Roboto,Helvetica,Arial,sans-serif;
  color:#181a1f; background:#fff; border:1px solid var(--brand-100); border-radius:12px;
  box-shadow:0 1px 2px rgba(0,0,0,.04),0 6px 16px rgba(0,0,0,.09);
  padding:14px;

  --brand-50:#F6FFF9; --brand-100:#DCF2EB; --brand-300:#BCE5D6;
  --brand-500:#56C257; --brand-600:#3FA94B; --brand-700:#2E8538; --brand-900:#1F5D28;
  --header-bg:var(--brand-500); --stripe:var(--brand-100); --hover:var(--brand-300);
  --cell-align:center;
  --table-max-h:680px;
  --bar-fixed-w:{{.BarFixedWidth}}px;
}
.tp-table-embed.align-left { --cell-align:left; }
.tp-table-embed.align-center { --cell-align:center; }
.tp-table-embed.align-right { --cell-align:right; }

.tp-table-embed.brand-vegasinsider {
  --brand-50:#FFF7DC; --brand-100:#FFE8AA; --brand-300:#FFE08A;
  --brand-500:#F2C23A; --brand-600:#D9A72A; --brand-700:#B9851A; --brand-900:#111111;
  --header-bg:var(--brand-500); --stripe:var(--brand-50); --hover:var(--brand-100);
}
.tp-table-embed.brand-bolavip {
  --brand-50:#FFF1F2; --brand-100:#FFE1E4; --brand-300:#FDA4AF;
  --brand-500:#D81F30; --brand-600:#BE1B2A; --brand-700:#9F1622; --brand-900:#5F0C12;
  --header-bg:var(--brand-600); --stripe:var(--brand-50); --hover:var(--brand-100);
}
.tp-table-embed.brand-canadasb {
  --brand-50:#FEF2F2; --brand-100:#FEE2E2; --brand-300:#FECACA;
  --brand-500:#EF4444; --brand-600:#DC2626; --brand-700:#B91C1C; --brand-900:#7F1D1D;
  --header-bg:var(--brand-600); --stripe:var(--brand-50); --hover:var(--brand-100);
}
.tp-table-embed.brand-rotogrinders {
  --brand-50:#E8F1FF; --brand-100:#D3E3FF; --brand-300:#9ABCF9;
  --brand-500:#2F7DF3; --brand-600:#0159D1; --brand-700:#0141A1; --brand-900:#011F54;
  --header-bg:var(--brand-700); --stripe:var(--brand-50); --hover:var(--brand-100);
}
.tp-table-embed.brand-aceodds {
  --brand-50:#F1F3F7; --brand-100:#D9DEE8; --brand-300:#AAB4C8;
  --brand-500:#30415F; --brand-600:#24324B; --brand-700:#1A2538; --brand-900:#0E1420;
  --header-bg:var(--brand-600); --stripe:var(--brand-50); --hover:var(--brand-100);
}

.tp-hide { display:none !important; }

.tp-header { padding:4px 4px 12px; }
.tp-header.centered { text-align:center; }
.tp-header h1 { margin:0; font-size:22px; font-weight:800; color:#181a1f; }
.tp-header h1.branded { color:var(--brand-700); }
.tp-header p { margin:4px 0 0; font-size:14px; color:#5b616b; }

.tp-controls { display:flex; flex-wrap:wrap; gap:8px; align-items:center; padding:0 4px 10px; }
.tp-controls input[type=search] {
  flex:1; min-width:160px; padding:7px 10px; font-size:13px;
  border:1px solid var(--brand-300); border-radius:10px; outline:none;
}
.tp-controls input[type=search]:focus { border-color:var(--brand-500); }
.tp-controls button {
  padding:7px 10px; font-size:13px; border:1px solid var(--brand-300); border-radius:10px;
  background:var(--brand-50); color:var(--brand-900); cursor:pointer;
}
.tp-controls button:hover { background:var(--hover); }

.tp-scroll { max-height:var(--table-max-h); overflow:auto; border-radius:10px; border:1px solid var(--brand-100); }
.tp-scroll::-webkit-scrollbar { width:8px; height:8px; }
.tp-scroll::-webkit-scrollbar-thumb { background:var(--brand-500); border-radius:8px; }

#tp-block { width:100%; border-collapse:collapse; font-size:13.5px; }
#tp-block thead th {
  position:sticky; top:0; background:var(--header-bg); color:#fff; {{.HeaderCasingCSS}}
  padding:9px 10px; text-align:var(--cell-align); cursor:pointer; user-select:none; white-space:nowrap;
}
#tp-block td { padding:8px 10px; text-align:var(--cell-align); border-bottom:1px solid var(--brand-100); }
#tp-block tbody tr:hover td { background:var(--hover); }
{{.StripeCSS}}
.tp-cell { overflow:hidden; text-overflow:ellipsis; }
.sort-arrow { font-size:10px; margin-left:4px; }

.tp-bar-td { min-width:var(--bar-fixed-w); }
.tp-bar-track { position:relative; width:var(--bar-fixed-w); height:20px; background:var(--brand-50); border-radius:6px; overflow:hidden; }
.tp-bar-fill { position:absolute; inset:0 auto 0 0; background:var(--brand-500); border-radius:6px; }
.tp-bar-text { position:absolute; inset:0; display:flex; align-items:center; justify-content:center; }
.tp-bar-pill { font-size:12px; font-weight:600; color:var(--brand-900); background:rgba(255,255,255,.75); padding:0 6px; border-radius:6px; }

.tp-pager { display:flex; gap:8px; align-items:center; padding:10px 4px 0; }
.tp-pager button {
  padding:6px 10px; font-size:13px; border:1px solid var(--brand-300); border-radius:10px;
  background:#fff; cursor:pointer;
}
.tp-pager button:disabled { opacity:.45; cursor:default; }
.tp-pager .tp-page-status { font-size:12.5px; color:#5b616b; }
.tp-pager select { padding:5px 6px; font-size:13px; border:1px solid var(--brand-300); border-radius:8px; }

.tp-embed-box { margin-top:10px; padding:0 4px; }
.tp-embed-box textarea {
  width:100%; height:110px; font:12px/1.4 ui-monospace,SFMono-Regular,Menlo,monospace;
  border:1px solid var(--brand-300); border-radius:10px; padding:8px; resize:vertical;
}

.tp-footer { display:flex; align-items:center; padding:12px 4px 2px; border-top:1px solid var(--brand-100); margin-top:12px; }
.tp-table-embed.footer-left .tp-footer { justify-content:flex-start; }
.tp-table-embed.footer-center .tp-footer { justify-content:center; }
.tp-table-embed.footer-right .tp-footer { justify-content:flex-end; }
.tp-footer img { max-height:34px; }
</style>

<header class="tp-header {{.HeaderAlignClass}} {{.HeaderVisClass}}">
  <h1 class="{{.TitleClass}}">{{.Title}}</h1>
  {{if .Subtitle}}<p>{{.Subtitle}}</p>{{end}}
</header>

<div class="tp-controls {{.ControlsVisClass}}">
  <input type="search" id="tp-search" class="{{.SearchVisClass}}" placeholder="Search table..." aria-label="Search table">
  <button type="button" id="tp-dl-csv">Download CSV</button>
  <button type="button" id="tp-dl-png">Download PNG</button>
  <button type="button" id="tp-embed-toggle" class="{{.EmbedVisClass}}">Embed</button>
</div>

<div class="tp-scroll" id="tp-capture">
<table id="tp-block">
  <thead>
    <tr>
      {{- range .Columns}}
      <th scope="col" data-type="{{.Type}}"{{if .Bar}} class="tp-bar-col"{{end}}>{{.Label}}</th>
      {{- end}}
    </tr>
  </thead>
  <tbody>
    {{- range .Rows}}
    <tr>
      {{- range .}}
      {{- if .Bar}}
      <td class="tp-bar-td" data-value="{{.Value}}"><div class="tp-bar-track"><div class="tp-bar-fill" style="width:{{.Pct}}%;"></div><div class="tp-bar-text"><span class="tp-bar-pill">{{.Value}}</span></div></div></td>
      {{- else}}
      <td><div class="tp-cell" title="{{.Value}}">{{.Value}}</div></td>
      {{- end}}
      {{- end}}
    </tr>
    {{- end}}
  </tbody>
</table>
</div>

<div class="tp-pager {{.PagerVisClass}}">
  <button type="button" id="tp-prev">&laquo; Prev</button>
  <button type="button" id="tp-next">Next &raquo;</button>
  <select id="tp-page-size" aria-label="Rows per page">
    <option value="10" selected>10 rows</option>
    <option value="25">25 rows</option>
    <option value="50">50 rows</option>
    <option value="0">All rows</option>
  </select>
  <span class="tp-page-status {{.PageStatusVisClass}}" id="tp-page-status"></span>
</div>

<div class="tp-embed-box tp-hide" id="tp-embed-box">
  <textarea readonly id="tp-embed-code" aria-label="Embed code"></textarea>
</div>

<footer class="tp-footer {{.FooterVisClass}}">
  <img src="{{.Brand.LogoURL}}" alt="{{.Brand.LogoAlt}}">
</footer>

<script>
(function(){
  var table = document.getElementById("tp-block");
  var tbody = table.tBodies[0];
  var rows = Array.prototype.slice.call(tbody.rows);
  var headers = table.tHead.rows[0].cells;
  var page = 0, pageSize = 10;
  var sortCol = -1, sortAsc = true;

  function visibleRows(){
    var q = (document.getElementById("tp-search").value || "").toLowerCase();
    return rows.filter(function(r){
      return !q || r.textContent.toLowerCase().indexOf(q) !== -1;
    });
  }

  function redraw(){
    var vis = visibleRows();
    var total = vis.length;
    var pages = pageSize > 0 ? Math.max(1, Math.ceil(total / pageSize)) : 1;
    if (page >= pages) page = pages - 1;
    rows.forEach(function(r){ r.style.display = "none"; });
    var start = pageSize > 0 ? page * pageSize : 0;
    var end = pageSize > 0 ? start + pageSize : total;
    vis.slice(start, end).forEach(function(r){ r.style.display = ""; });
    document.getElementById("tp-prev").disabled = page === 0;
    document.getElementById("tp-next").disabled = page >= pages - 1;
    document.getElementById("tp-page-status").textContent =
      "Page " + (page + 1) + " of " + pages + " (" + total + " rows)";
  }

  function cellValue(row, i){
    var td = row.cells[i];
    return td.getAttribute("data-value") || td.textContent;
  }

  function sortBy(i){
    if (sortCol === i) { sortAsc = !sortAsc; } else { sortCol = i; sortAsc = true; }
    var numeric = headers[i].getAttribute("data-type") === "num";
    rows.sort(function(a, b){
      var av = cellValue(a, i), bv = cellValue(b, i);
      if (numeric) {
        var an = parseFloat(av.replace(/[^0-9.\-]/g, "")) || 0;
        var bn = parseFloat(bv.replace(/[^0-9.\-]/g, "")) || 0;
        return sortAsc ? an - bn : bn - an;
      }
      return sortAsc ? av.localeCompare(bv) : bv.localeCompare(av);
    });
    rows.forEach(function(r){ tbody.appendChild(r); });
    Array.prototype.forEach.call(document.querySelectorAll(".sort-arrow"), function(e){ e.remove(); });
    var arrow = document.createElement("span");
    arrow.className = "sort-arrow";
    arrow.textContent = sortAsc ? "▲" : "▼";
    headers[i].appendChild(arrow);
    page = 0;
    redraw();
  }

  Array.prototype.forEach.call(headers, function(th, i){
    th.addEventListener("click", function(){ sortBy(i); });
  });

  document.getElementById("tp-search").addEventListener("input", function(){ page = 0; redraw(); });
  document.getElementById("tp-prev").addEventListener("click", function(){ if (page > 0) { page--; redraw(); } });
  document.getElementById("tp-next").addEventListener("click", function(){ page++; redraw(); });
  document.getElementById("tp-page-size").addEventListener("change", function(){
    pageSize = parseInt(this.value, 10);
    page = 0;
    redraw();
  });

  document.getElementById("tp-dl-csv").addEventListener("click", function(){
    var lines = [];
    var esc = function(v){ return '"' + String(v).replace(/"/g, '""') + '"'; };
    var head = [];
    Array.prototype.forEach.call(headers, function(th){ head.push(esc(th.textContent.replace(/[▲▼]/g, "").trim())); });
    lines.push(head.join(","));
    rows.forEach(function(r){
      var cells = [];
      for (var i = 0; i < r.cells.length; i++) cells.push(esc(cellValue(r, i).trim()));
      lines.push(cells.join(","));
    });
    var blob = new Blob([lines.join("\n")], {type: "text/csv;charset=utf-8"});
    var a = document.createElement("a");
    a.href = URL.createObjectURL(blob);
    a.download = "table.csv";
    a.click();
    URL.revokeObjectURL(a.href);
  });

  document.getElementById("tp-dl-png").addEventListener("click", function(){
    if (typeof html2canvas !== "function") return;
    html2canvas(document.getElementById("tp-capture")).then(function(canvas){
      var a = document.createElement("a");
      a.href = canvas.toDataURL("image/png");
      a.download = "table.png";
      a.click();
    });
  });

  var embedToggle = document.getElementById("tp-embed-toggle");
  embedToggle.addEventListener("click", function(){
    var box = document.getElementById("tp-embed-box");
    box.classList.toggle("tp-hide");
    if (!box.classList.contains("tp-hide")) {
      document.getElementById("tp-embed-code").value =
        '<iframe\n  src="' + window.location.href + '"\n  width="100%"\n  height="800"\n' +
        '  style="border:0; border-radius:12px; overflow:hidden;"\n' +
        '  loading="lazy"\n  referrerpolicy="no-referrer-when-downgrade"\n></iframe>';
    }
  });

  redraw();
})();
</script>
</section>
</body>
</html>
`
