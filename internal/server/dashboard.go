package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (r *Router) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}

// dashboardHTML is a self-contained page that streams snapshots over the
// websocket and falls back to polling /api/processes when it drops.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>procmon</title>
<style>
  body { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; background: #111; color: #ddd; margin: 2em; }
  h1 { font-size: 1.1em; color: #8fd; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 4px 12px; border-bottom: 1px solid #333; }
  th { color: #8fd; }
  .hot { color: #f66; }
  #status { color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>procmon</h1>
<p id="status">connecting&hellip;</p>
<table>
  <thead><tr><th>PID</th><th>NAME</th><th>SCRIPT</th><th>CPU%</th><th>MEM MB</th></tr></thead>
  <tbody id="rows"></tbody>
</table>
<script>
function renderRows(procs) {
  const body = document.getElementById("rows");
  body.innerHTML = "";
  for (const p of procs) {
    const tr = document.createElement("tr");
    const cpu = p.cpu_percent.toFixed(1);
    tr.innerHTML = "<td>" + p.pid + "</td><td>" + p.name + "</td><td>" + (p.script || "") +
      "</td><td" + (p.cpu_percent > 80 ? " class='hot'" : "") + ">" + cpu +
      "</td><td>" + p.memory_mb.toFixed(1) + "</td>";
    body.appendChild(tr);
  }
}
function setStatus(s) { document.getElementById("status").textContent = s; }
function poll() {
  fetch("/api/processes").then(r => r.json()).then(d => {
    if (d.processes) { renderRows(d.processes); setStatus("polling " + d.timestamp); }
  }).catch(() => setStatus("unreachable"));
}
function connect() {
  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = (ev) => {
    const v = JSON.parse(ev.data);
    renderRows(v.live || []);
    setStatus("live " + v.timestamp);
  };
  ws.onclose = () => { setStatus("websocket closed, polling"); setInterval(poll, 2000); };
}
connect();
</script>
</body>
</html>
`
