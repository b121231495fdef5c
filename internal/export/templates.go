package export

const documentTemplate = `<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
<meta charset="utf-8">
<title>{{.Topic}}</title>
<style>
body { font-family: sans-serif; padding: 40px; line-height: 1.6; }
h1 { color: #16a34a; border-bottom: 2px solid #16a34a; padding-bottom: 10px; }
h2 { color: #15803d; margin-top: 30px; }
.quiz-item { background: #f1f5f9; padding: 15px; margin-bottom: 15px; border-radius: 8px; }
.answer-key { font-weight: bold; margin-top: 10px; color: #059669; }
@media print { .quiz-item { break-inside: avoid; } }
</style>
</head>
<body>
<h1>{{.Topic}}</h1>

<h2>{{.Head.Explanation}}</h2>
<div class="explanation">{{.Explanation}}</div>

<h2>{{.Head.Slides}}</h2>
<ul>
{{- range .Slides}}
<li><strong>{{.Title}}</strong>: {{.Bullets}}</li>
{{- end}}
</ul>

<h2>{{.Head.Quiz}}</h2>
{{- range .Quiz}}
<div class="quiz-item">
<p><strong>{{.Number}}. {{.Question}}</strong></p>
<ul>
{{- range .Options}}
<li>{{.Key}}) {{.Text}}</li>
{{- end}}
</ul>
<p class="answer-key">{{$.Head.Answer}}: {{.Answer}}</p>
</div>
{{- end}}
</body>
</html>
`
