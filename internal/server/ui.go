// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

package server

// indexPage is the single-page builder UI. It drives the /api endpoints via
// fetch and shows the rendered draft in an iframe.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>tablepub</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; display: flex; height: 100vh; }
  #panel { width: 340px; padding: 16px; border-right: 1px solid #ddd; overflow-y: auto; }
  #panel h1 { font-size: 18px; margin: 0 0 12px; }
  #panel label { display: block; font-size: 13px; margin: 10px 0 2px; color: #333; }
  #panel input[type=text], #panel select { width: 100%; box-sizing: border-box; padding: 5px; }
  #panel button { margin-top: 12px; padding: 7px 14px; cursor: pointer; }
  #preview { flex: 1; border: none; }
  #status { font-size: 12px; color: #666; margin-top: 10px; white-space: pre-wrap; }
  .ok { color: #1a7f37; } .err { color: #b42318; }
</style>
</head>
<body>
<div id="panel">
  <h1>tablepub</h1>
  <label>CSV file</label>
  <input type="file" id="csv" accept=".csv">
  <label>Brand</label>
  <select id="brand"></select>
  <label>Title</label>
  <input type="text" id="title" value="Table 1">
  <label>Subtitle</label>
  <input type="text" id="subtitle" value="Subheading">
  <label><input type="checkbox" id="striped" checked> Striped rows</label>
  <label>Header casing</label>
  <select id="casing"><option>as-is</option><option>upper</option><option>title</option></select>
  <label>Bar columns (comma separated)</label>
  <input type="text" id="bars">
  <button id="apply">Apply &amp; preview</button>
  <button id="confirm">Confirm snapshot</button>
  <hr>
  <label>Page name</label>
  <input type="text" id="filename" value="table">
  <label>Publisher</label>
  <input type="text" id="publisher">
  <label>Type SWAP to overwrite an existing page</label>
  <input type="text" id="overwrite">
  <button id="publish">Publish</button>
  <div id="status"></div>
</div>
<iframe id="preview"></iframe>
<script>
const $ = (id) => document.getElementById(id);
const say = (msg, cls) => { $('status').textContent = msg; $('status').className = cls || ''; };

$('csv').addEventListener('change', async () => {
  const f = $('csv').files[0];
  if (!f) return;
  const fd = new FormData();
  fd.append('file', f);
  const res = await fetch('/api/upload', { method: 'POST', body: fd });
  const body = await res.json();
  if (!res.ok) { say(body.error, 'err'); return; }
  $('brand').innerHTML = body.brands.map((b) => '<option>' + b + '</option>').join('');
  say('Loaded ' + body.rows + ' rows, ' + body.columns.length + ' columns.', 'ok');
});

async function applyConfig() {
  const cfg = {
    title: $('title').value,
    subtitle: $('subtitle').value,
    brand: $('brand').value,
    striped: $('striped').checked,
    center_titles: true,
    show_header: true, show_footer: true, show_search: true,
    show_pager: true, show_page_numbers: true, show_embed: true,
    footer_logo_align: 'center', cell_align: 'center',
    header_casing: $('casing').value,
    bar_columns: $('bars').value.split(',').map((s) => s.trim()).filter(Boolean),
  };
  const res = await fetch('/api/config', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify(cfg),
  });
  if (!res.ok) { say((await res.json()).error, 'err'); return false; }
  return true;
}

$('apply').addEventListener('click', async () => {
  if (await applyConfig()) $('preview').src = '/preview?t=' + Date.now();
});

$('confirm').addEventListener('click', async () => {
  await applyConfig();
  const res = await fetch('/api/confirm', { method: 'POST' });
  const body = await res.json();
  say(res.ok ? 'Confirmed at ' + body.confirmed_at : body.error, res.ok ? 'ok' : 'err');
});

$('publish').addEventListener('click', async () => {
  const res = await fetch('/api/publish', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({
      file_name: $('filename').value,
      publisher: $('publisher').value,
      overwrite: $('overwrite').value,
    }),
  });
  const body = await res.json();
  say(res.ok ? 'Published: ' + body.url + (body.live ? ' (live)' : ' (propagating)') : body.error,
      res.ok ? 'ok' : 'err');
});
</script>
</body>
</html>
`
