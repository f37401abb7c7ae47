package site

// pageTemplate renders one gallery page. The #lightbox markup is what the browser host binds to.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>{{.Title}}</title>
  <base href="{{.Base}}" />
  <link rel="stylesheet" href="style.css?v{{.Version}}" />
  <link rel="icon" type="image/x-icon" href="favicon.ico" />
</head>
<body>
{{- if .Banner}}
  <p class="banner">{{.Banner}}</p>
{{- end}}
  <header>
    <h1>{{.Title}}</h1>
    <p class="update">Last updated: {{.Date}}</p>
    <nav class="menu">
      <ul>
{{- range .Menu}}
        <li><a href="{{.Href}}" class="{{if .Current}}current{{end}} {{if .Active}}active{{end}}">{{.Name}}</a></li>
{{- end}}
      </ul>
    </nav>
{{- if .Subnav}}
    <div id="subnav">
      <ul>
{{- range .Subnav}}
        <li><a href="{{.Href}}" class="{{if .Current}}current{{end}} {{if .Active}}active{{end}}">{{.Name}}</a></li>
{{- end}}
      </ul>
    </div>
{{- end}}
  </header>
  <img src="legend.png" alt="legend" id="legend" />
  <div id="containers">
{{- if .Text}}
    <div class="container"><div class="text">{{.Text}}</div></div>
{{- end}}
{{- range .LargeImages}}
    <div class="container"><div class="large">
      <img src="{{.Src}}" data-full="{{.Full}}" alt="{{.Alt}}" loading="lazy" />
    </div></div>
{{- end}}
{{- range .Blocks}}
{{- if .Heading}}
    {{heading .Level .Heading}}
{{- else}}
    <div class="container">
{{- range .Images}}
      <div class="grid-item">
        <img src="{{.Src}}" data-full="{{.Full}}" alt="{{.Alt}}" loading="lazy" />
      </div>
{{- end}}
    </div>
{{- end}}
{{- end}}
{{- if .Iframes}}
    <h2>{{.IframesHeading}}</h2>
{{- range .Iframes}}
    <iframe src="{{.}}">Your browser does not support iframes.</iframe>
{{- end}}
{{- end}}
  </div>
  <div id="lightbox">
    <span class="close">&times;</span>
    <span class="arrow left">&#10094;</span>
    <img id="lightbox-img" src="" alt="" />
    <span class="arrow right">&#10095;</span>
  </div>
  <script src="js/wasm_exec.js"></script>
  <script>
    const go = new Go();
    WebAssembly.instantiateStreaming(fetch("js/lightbox.wasm?v{{.Version}}"), go.importObject)
      .then((result) => go.run(result.instance));
  </script>
</body>
</html>
`
