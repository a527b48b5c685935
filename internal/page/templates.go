package page

// layoutTemplate wraps both the player page and the message page.
const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>` + cssContent + `
    .stage { height: {{.Height}}px; }
  </style>
</head>
<body>
  <h1 class="title">{{.Title}}</h1>
  {{if .Intro}}<section class="intro">{{.Intro}}</section>{{end}}
  {{template "body" .}}
</body>
</html>{{end}}`

const messageTemplate = `{{define "body"}}
  <div class="stage">
    <p class="message {{.Level}}">{{.Message}}</p>
  </div>
{{end}}`

const playerTemplate = `{{define "body"}}
  <div class="stage">
    {{if .Script.SoundEnabled}}<button id="muteToggle" type="button" aria-label="Toggle sound">&#x1F50A;</button>{{end}}
    <div id="startSection" hidden>
      <button class="pretty-button" id="startButton" type="button">&#x25B6; Start</button>
    </div>
    <img id="slideshow" alt="" hidden>
    <div id="pauseOptions" hidden>
      {{if not .Script.DownloadOnPause}}<button class="pretty-button" id="downloadButton" type="button">&#x2B07; Download this image</button>{{end}}
      <button class="pretty-button" id="resumeButton" type="button">&#x21BB; Continue</button>
    </div>
    <p id="status" class="message warning" hidden></p>
  </div>
  <script>
    const cfg = {{.Script}};
` + viewJS + `
    {{if eq .Script.Mode "standalone"}}` + standaloneJS + `{{else}}` + servedJS + `{{end}}
  </script>
{{end}}`

const cssContent = `
    body { font-family: system-ui, sans-serif; margin: 0; padding: 16px; text-align: center; background: #fafafa; color: #222; }
    .title { margin: 8px 0 16px; }
    .intro { max-width: 720px; margin: 0 auto 16px; text-align: left; }
    .stage { position: relative; display: flex; flex-direction: column; align-items: center; justify-content: center; }
    #slideshow { max-width: 90%; max-height: 80%; border-radius: 8px; cursor: pointer; }
    .pretty-button { padding: 15px 30px; font-size: 18px; background-color: #4a4a8a; color: white; border: none; border-radius: 12px; cursor: pointer; box-shadow: 0 4px 10px rgba(0,0,0,0.2); transition: all 0.3s ease; margin: 10px; }
    .pretty-button:hover { background-color: #3c3c75; transform: scale(1.05); }
    #muteToggle { position: fixed; top: 15px; right: 20px; font-size: 24px; cursor: pointer; background: none; border: none; }
    #pauseOptions { margin-top: 20px; }
    .message { padding: 12px 20px; border-radius: 8px; }
    .message.error { background: #fde8e8; color: #9b1c1c; }
    .message.warning { background: #fdf6e3; color: #8a6d3b; }`

// viewJS holds the DOM helpers shared by both player modes.
const viewJS = `
    const img = document.getElementById("slideshow");
    const startSection = document.getElementById("startSection");
    const pauseOptions = document.getElementById("pauseOptions");
    const muteToggle = document.getElementById("muteToggle");
    const statusLine = document.getElementById("status");
    const audio = {};
    for (const [name, src] of Object.entries(cfg.sounds || {})) {
      if (!src) continue;
      audio[name] = new Audio(src);
      if (name === "bgm") audio[name].loop = true;
    }
    function showIndex(i) { img.src = cfg.images[i].url; }
    function render(phase, muted) {
      startSection.hidden = phase !== "idle";
      img.hidden = phase === "idle";
      pauseOptions.hidden = phase !== "paused";
      if (muteToggle) muteToggle.textContent = muted ? "\u{1F507}" : "\u{1F50A}";
      for (const a of Object.values(audio)) a.muted = muted;
    }
    function play(effect) {
      const a = audio[effect];
      if (!a) return;
      if (effect !== "bgm") a.currentTime = 0;
      a.play().catch(() => {});
    }
    function save(url, name) {
      const link = document.createElement("a");
      link.href = url;
      link.download = name;
      document.body.appendChild(link);
      link.click();
      link.remove();
    }
    function report(text) {
      statusLine.textContent = text;
      statusLine.hidden = false;
    }
`

// servedJS forwards user actions to the server and applies its events.
const servedJS = `
    const scheme = location.protocol === "https:" ? "wss:" : "ws:";
    const ws = new WebSocket(scheme + "//" + location.host + cfg.socket + "?session=" + encodeURIComponent(cfg.session));
    const pending = [];
    function send(type) {
      const msg = JSON.stringify({type: type});
      if (ws.readyState === WebSocket.OPEN) ws.send(msg);
      else if (ws.readyState === WebSocket.CONNECTING) pending.push(msg);
    }
    ws.onopen = () => { while (pending.length) ws.send(pending.shift()); };
    ws.onmessage = (msg) => {
      const e = JSON.parse(msg.data);
      switch (e.type) {
        case "show": showIndex(e.index); break;
        case "state": render(e.phase, e.muted); break;
        case "sound": play(e.effect); break;
        case "download": save(e.url, e.name); break;
        case "error": report(e.message); break;
      }
    };
    ws.onclose = () => report("Connection closed. Reload the page to continue.");
    document.getElementById("startButton").onclick = () => send("start");
    img.onclick = () => send("click");
    document.getElementById("resumeButton").onclick = () => send("resume");
    const dl = document.getElementById("downloadButton");
    if (dl) dl.onclick = () => send("download");
    if (muteToggle) muteToggle.onclick = () => send("mute");
`

// standaloneJS runs the whole state machine in the browser.
const standaloneJS = `
    let index = 0, phase = "idle", muted = false, timer = null, bgmStarted = false;
    const playable = () => cfg.soundEnabled && !muted;
    function arm() { if (timer === null) timer = setInterval(tick, cfg.periodMs); }
    function disarm() { if (timer !== null) { clearInterval(timer); timer = null; } }
    function tick() {
      if (phase !== "running") return;
      index = (index + 1) % cfg.images.length;
      showIndex(index);
    }
    function start() {
      if (phase !== "idle") return;
      phase = "running";
      showIndex(index);
      if (playable()) { bgmStarted = true; play("bgm"); }
      arm();
      render(phase, muted);
    }
    function resume() {
      if (phase !== "paused") return;
      phase = "running";
      arm();
      render(phase, muted);
    }
    function download() {
      if (phase === "idle") return;
      save(cfg.images[index].url, cfg.images[index].name);
      if (playable()) play("download");
    }
    function click() {
      if (phase === "paused") { resume(); return; }
      if (phase !== "running") return;
      phase = "paused";
      disarm();
      if (playable()) play("click");
      if (cfg.downloadOnPause) download();
      render(phase, muted);
    }
    function toggleMute() {
      muted = !muted;
      if (phase !== "idle" && !bgmStarted && playable()) { bgmStarted = true; play("bgm"); }
      render(phase, muted);
    }
    document.getElementById("startButton").onclick = start;
    img.onclick = click;
    document.getElementById("resumeButton").onclick = resume;
    const dl = document.getElementById("downloadButton");
    if (dl) dl.onclick = download;
    if (muteToggle) muteToggle.onclick = toggleMute;
    render(phase, muted);
    if (!cfg.requireStart) start();
`
