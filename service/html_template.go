package service

import (
	"html/template"
	"io"

	"github.com/ludo-technologies/pyplag/domain"
)

// htmlReportData is the view model of the HTML report
type htmlReportData struct {
	Response *domain.PlagiarismResponse
	Rows     []htmlRow
}

type htmlRow struct {
	Number  int
	PathA   string
	PathB   string
	Score   string
	Band    string
	Flagged bool
	Error   string
}

var htmlReportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>pyplag report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f4f5fb;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .header, .card {
            background: white;
            border-radius: 10px;
            padding: 24px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.08);
        }
        .header h1 { color: #667eea; margin-bottom: 6px; }
        .stats { display: flex; gap: 24px; flex-wrap: wrap; }
        .stat .value { font-size: 1.6em; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        td.score { font-family: monospace; text-align: right; }
        tr.flagged { background: #fff1f1; }
        .band-identical, .band-error { color: #c62828; font-weight: bold; }
        .band-high { color: #e53935; }
        .band-moderate { color: #f9a825; }
        .band-low { color: #2e7d32; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>Plagiarism Report</h1>
        <div>Generated {{.Response.GeneratedAt}} by pyplag {{.Response.Version}} in {{.Response.Duration}}ms</div>
    </div>
    {{with .Response.Statistics}}
    <div class="card stats">
        <div class="stat"><div class="value">{{.TotalPairs}}</div>pairs</div>
        <div class="stat"><div class="value">{{.FlaggedPairs}}</div>flagged</div>
        <div class="stat"><div class="value">{{.ErrorPairs}}</div>errors</div>
        <div class="stat"><div class="value">{{.FilesCanonicalized}}</div>files</div>
    </div>
    {{end}}
    <div class="card">
        <table>
            <thead>
                <tr><th>#</th><th>File A</th><th>File B</th><th>Score</th><th>Band</th><th>Note</th></tr>
            </thead>
            <tbody>
            {{range .Rows}}
                <tr{{if .Flagged}} class="flagged"{{end}}>
                    <td>{{.Number}}</td>
                    <td>{{.PathA}}</td>
                    <td>{{.PathB}}</td>
                    <td class="score">{{.Score}}</td>
                    <td class="band-{{.Band}}">{{.Band}}</td>
                    <td>{{if .Error}}{{.Error}}{{else if .Flagged}}flagged{{end}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </div>
</div>
</body>
</html>
`))

// writeHTMLReport renders the self-contained HTML report
func writeHTMLReport(response *domain.PlagiarismResponse, writer io.Writer) error {
	digits := precisionOf(response)
	data := htmlReportData{Response: response}

	for _, r := range response.Results {
		data.Rows = append(data.Rows, htmlRow{
			Number:  r.Pair.Index + 1,
			PathA:   r.Pair.PathA,
			PathB:   r.Pair.PathB,
			Score:   r.Score.Format(digits),
			Band:    string(domain.BandOf(r.Score)),
			Flagged: r.Flagged,
			Error:   r.Error,
		})
	}

	if err := htmlReportTemplate.Execute(writer, data); err != nil {
		return domain.NewOutputError("failed to render HTML report", err)
	}
	return nil
}
