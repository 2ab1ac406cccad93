package html

// ReportTemplate is a self-contained verification report page
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sheet Verification - {{.DataSheet}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 32px 20px;
            margin-bottom: 30px;
            border-radius: 8px;
        }

        header h1 {
            font-size: 2em;
            margin-bottom: 6px;
        }

        header p {
            opacity: 0.9;
        }

        .card {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 24px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.05);
        }

        .card h2 {
            color: #667eea;
            margin-bottom: 12px;
            font-size: 1.3em;
        }

        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 15px;
        }

        .stat {
            background: #f8f9fa;
            padding: 12px 15px;
            border-radius: 6px;
            border-left: 4px solid #667eea;
        }

        .stat .label {
            font-size: 0.85em;
            color: #6c757d;
        }

        .stat .value {
            font-size: 1.4em;
            font-weight: 600;
            word-break: break-all;
        }

        .status-pass {
            color: #2e7d32;
            font-weight: 700;
        }

        .status-fail {
            color: #d32f2f;
            font-weight: 700;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.9em;
        }

        th, td {
            border: 1px solid #e0e0e0;
            padding: 6px 10px;
            text-align: left;
        }

        th {
            background: #eef1f6;
        }

        td.flagged {
            background: #fdecea;
            color: #d32f2f;
        }

        pre {
            background: #f8f9fa;
            padding: 12px;
            border-radius: 6px;
            white-space: pre-wrap;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Sheet Verification Report</h1>
            <p>Run {{.RunID}} · Generated on {{.GeneratedAt}}</p>
        </header>

        <div class="card">
            <h2>Summary</h2>
            <div class="stats">
                <div class="stat">
                    <div class="label">Data Sheet</div>
                    <div class="value">{{.DataSheet}}</div>
                </div>
                <div class="stat">
                    <div class="label">Strategy</div>
                    <div class="value">{{.Strategy}}</div>
                </div>
                <div class="stat">
                    <div class="label">Total Rows</div>
                    <div class="value">{{.TotalRows}}</div>
                </div>
                <div class="stat">
                    <div class="label">Result</div>
                    <div class="value {{statusClass .Passed}}">{{if .Passed}}PASS{{else}}FAIL{{end}}</div>
                </div>
            </div>
        </div>

        <div class="card">
            <h2>Checks</h2>
            <table>
                <tr><th>Check</th><th>Column</th><th>Invalid Rows</th><th>Status</th></tr>
                {{range .Checks}}
                <tr>
                    <td>{{.Name}}</td>
                    <td>{{.Column}}</td>
                    <td>{{len .Rows}}</td>
                    <td class="{{statusClass .Passed}}">{{.Status}}</td>
                </tr>
                {{end}}
            </table>
        </div>

        {{range .Checks}}
        <div class="card">
            <h2>{{.Name}} <span class="{{statusClass .Passed}}">{{.Status}}</span></h2>
            {{if .Rows}}
            <table>
                <tr>
                    <th>Row</th>
                    {{range .Columns}}<th>{{.}}</th>{{end}}
                </tr>
                {{range .Rows}}
                <tr>
                    <td>{{.Line}}</td>
                    {{range .Cells}}<td{{if .Flagged}} class="flagged"{{end}}>{{.Value}}</td>{{end}}
                </tr>
                {{end}}
            </table>
            {{else}}
            <p>No issues found</p>
            {{end}}
        </div>
        {{end}}

        {{if .Diagnostics}}
        <div class="card">
            <h2>Diagnostics</h2>
            <pre>{{range .Diagnostics}}{{.}}
{{end}}</pre>
        </div>
        {{end}}
    </div>
</body>
</html>
`
