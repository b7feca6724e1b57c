package output

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// htmlReportData is the template payload for the standalone HTML report.
type htmlReportData struct {
	GeneratedAt string
	Report      RunReport
}

// GenerateHTMLReport generates a standalone HTML report for a finished run.
func GenerateHTMLReport(w io.Writer, report RunReport) error {
	data := htmlReportData{
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Report:      report,
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			return d.Round(time.Microsecond).String()
		},
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>QueryBench Comparison Report</title>
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
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
            overflow: hidden;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px 40px;
        }
        header h1 {
            font-size: 2rem;
            margin-bottom: 10px;
        }
        header .meta {
            opacity: 0.9;
            font-size: 0.9rem;
        }
        .content {
            padding: 40px;
        }
        .grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 20px;
            border-left: 4px solid #667eea;
        }
        .card h3 {
            font-size: 0.9rem;
            color: #6c757d;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            margin-bottom: 10px;
        }
        .card .value {
            font-size: 2rem;
            font-weight: bold;
            color: #2c3e50;
        }
        .card.success {
            border-left-color: #10b981;
        }
        .card.error {
            border-left-color: #ef4444;
        }
        .section {
            margin-bottom: 40px;
        }
        .section h2 {
            font-size: 1.5rem;
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #e5e7eb;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            background: white;
        }
        th, td {
            text-align: left;
            padding: 12px;
            border-bottom: 1px solid #e5e7eb;
        }
        th {
            background: #f8f9fa;
            font-weight: 600;
            color: #4b5563;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }
        tr:hover {
            background: #f8f9fa;
        }
        .badge {
            display: inline-block;
            padding: 4px 12px;
            border-radius: 12px;
            font-size: 0.85rem;
            font-weight: 600;
        }
        .badge-a {
            background: #dbeafe;
            color: #1e40af;
        }
        .badge-b {
            background: #ede9fe;
            color: #5b21b6;
        }
        .badge-tie {
            background: #f3f4f6;
            color: #4b5563;
        }
        .badge-success {
            background: #d1fae5;
            color: #065f46;
        }
        .badge-error {
            background: #fee2e2;
            color: #991b1b;
        }
        .latency-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
            gap: 15px;
            margin-top: 20px;
        }
        .latency-item {
            background: #f8f9fa;
            padding: 15px;
            border-radius: 6px;
            text-align: center;
        }
        .latency-item .label {
            font-size: 0.85rem;
            color: #6c757d;
            margin-bottom: 5px;
        }
        .latency-item .value {
            font-size: 1.3rem;
            font-weight: bold;
            color: #2c3e50;
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>QueryBench Comparison Report</h1>
            <div class="meta">Run: {{.Report.Result.RunID}}</div>
            <div class="meta">Generated: {{.GeneratedAt}} | Duration: {{formatDuration .Report.Result.Duration}}</div>
        </header>

        <div class="content">
            <!-- Summary Cards -->
            <div class="grid">
                <div class="card">
                    <h3>Units Completed</h3>
                    <div class="value">{{.Report.Result.Summary.UnitsCompleted}}</div>
                </div>
                <div class="card success">
                    <h3>Wins A (Direct)</h3>
                    <div class="value">{{.Report.Result.Summary.WinsA}}</div>
                </div>
                <div class="card success">
                    <h3>Wins B (Query)</h3>
                    <div class="value">{{.Report.Result.Summary.WinsB}}</div>
                </div>
                <div class="card">
                    <h3>Ties</h3>
                    <div class="value">{{.Report.Result.Summary.Ties}}</div>
                </div>
                <div class="card error">
                    <h3>Units Failed</h3>
                    <div class="value">{{.Report.Result.FailedUnits}}</div>
                </div>
                <div class="card">
                    <h3>Success Rate</h3>
                    <div class="value">{{formatFloat .Report.Result.Summary.SuccessRate}}%</div>
                </div>
            </div>

            <!-- Latency Percentiles -->
            {{if gt .Report.StyleAStats.Attempts 0}}
            <div class="section">
                <h2>Style A Latency (Direct Fetch, {{.Report.StyleAStats.Attempts}} attempts)</h2>
                <div class="latency-grid">
                    <div class="latency-item">
                        <div class="label">P50</div>
                        <div class="value">{{formatDuration .Report.StyleAStats.P50}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P90</div>
                        <div class="value">{{formatDuration .Report.StyleAStats.P90}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P99</div>
                        <div class="value">{{formatDuration .Report.StyleAStats.P99}}</div>
                    </div>
                </div>
            </div>
            {{end}}

            {{if gt .Report.StyleBStats.Attempts 0}}
            <div class="section">
                <h2>Style B Latency (Structured Query, {{.Report.StyleBStats.Attempts}} attempts)</h2>
                <div class="latency-grid">
                    <div class="latency-item">
                        <div class="label">P50</div>
                        <div class="value">{{formatDuration .Report.StyleBStats.P50}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P90</div>
                        <div class="value">{{formatDuration .Report.StyleBStats.P90}}</div>
                    </div>
                    <div class="latency-item">
                        <div class="label">P99</div>
                        <div class="value">{{formatDuration .Report.StyleBStats.P99}}</div>
                    </div>
                </div>
            </div>
            {{end}}

            <!-- Unit Breakdown -->
            {{if .Report.Result.Results}}
            <div class="section">
                <h2>Unit Breakdown</h2>
                <table>
                    <thead>
                        <tr>
                            <th>Unit</th>
                            <th>Median A</th>
                            <th>Median B</th>
                            <th>Winner</th>
                            <th>Result Sets</th>
                        </tr>
                    </thead>
                    <tbody>
                        {{range .Report.Result.Results}}
                        <tr>
                            <td><strong>{{.UnitID}}</strong></td>
                            <td>{{formatDuration .StyleA.Median}}</td>
                            <td>{{formatDuration .StyleB.Median}}</td>
                            <td>
                                {{if eq .Winner "A"}}
                                <span class="badge badge-a">A</span>
                                {{else if eq .Winner "B"}}
                                <span class="badge badge-b">B</span>
                                {{else}}
                                <span class="badge badge-tie">tie</span>
                                {{end}}
                            </td>
                            <td>
                                {{if .Report.Equivalent}}
                                <span class="badge badge-success">equivalent</span>
                                {{else}}
                                <span class="badge badge-error">diverged</span>
                                {{end}}
                            </td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>
</body>
</html>
`
