/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML templates for the Lyra Formats dashboard. Provides
beautiful, modern, and responsive web interface with interactive charts
and comprehensive experiment metrics visualization.
*/

package reporting

// dashboardTemplate is the main HTML template for the dashboard
const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Experiment Dashboard</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <link href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.0.0/css/all.min.css" rel="stylesheet">
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container {
            max-width: 1400px;
            margin: 0 auto;
            padding: 20px;
        }

        .header {
            background: rgba(255, 255, 255, 0.95);
            backdrop-filter: blur(10px);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            text-align: center;
        }

        .header h1 {
            color: #4a5568;
            font-size: 2.5rem;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .header p {
            color: #718096;
            font-size: 1.1rem;
        }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }

        .stat-card {
            background: rgba(255, 255, 255, 0.95);
            backdrop-filter: blur(10px);
            border-radius: 15px;
            padding: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            transition: transform 0.3s ease, box-shadow 0.3s ease;
        }

        .stat-card:hover {
            transform: translateY(-5px);
            box-shadow: 0 12px 40px rgba(0, 0, 0, 0.15);
        }

        .stat-card h3 {
            color: #4a5568;
            font-size: 1.2rem;
            margin-bottom: 15px;
            display: flex;
            align-items: center;
            gap: 10px;
        }

        .stat-card .value {
            font-size: 2.5rem;
            font-weight: 700;
            color: #2d3748;
            margin-bottom: 5px;
        }

        .stat-card .label {
            color: #718096;
            font-size: 0.9rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }

        .charts-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(500px, 1fr));
            gap: 30px;
            margin-bottom: 30px;
        }

        .chart-container {
            background: rgba(255, 255, 255, 0.95);
            backdrop-filter: blur(10px);
            border-radius: 15px;
            padding: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .chart-container h3 {
            color: #4a5568;
            font-size: 1.3rem;
            margin-bottom: 20px;
            text-align: center;
        }

        .chart-wrapper {
            position: relative;
            height: 300px;
        }

        .tabs {
            display: flex;
            background: rgba(255, 255, 255, 0.95);
            backdrop-filter: blur(10px);
            border-radius: 15px;
            padding: 5px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .tab {
            flex: 1;
            padding: 15px 20px;
            text-align: center;
            cursor: pointer;
            border-radius: 10px;
            transition: all 0.3s ease;
            color: #718096;
            font-weight: 500;
        }

        .tab.active {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            box-shadow: 0 4px 15px rgba(102, 126, 234, 0.4);
        }

        .tab:hover:not(.active) {
            background: rgba(102, 126, 234, 0.1);
            color: #667eea;
        }

        .tab-content {
            display: none;
        }

        .tab-content.active {
            display: block;
        }

        .attempt-list {
            background: rgba(255, 255, 255, 0.95);
            backdrop-filter: blur(10px);
            border-radius: 15px;
            padding: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .attempt-item {
            background: #f7fafc;
            border-radius: 10px;
            padding: 20px;
            margin-bottom: 15px;
            border-left: 4px solid #718096;
            transition: all 0.3s ease;
        }

        .attempt-item:hover {
            transform: translateX(5px);
            box-shadow: 0 4px 15px rgba(0, 0, 0, 0.1);
        }

        .attempt-item.ok { border-left-color: #38a169; }
        .attempt-item.build_error { border-left-color: #dd6b20; }
        .attempt-item.crash { border-left-color: #e53e3e; }
        .attempt-item.timeout { border-left-color: #d69e2e; }
        .attempt-item.error { border-left-color: #718096; }

        .attempt-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 10px;
        }

        .attempt-title {
            font-weight: 600;
            color: #2d3748;
        }

        .attempt-status {
            padding: 4px 12px;
            border-radius: 20px;
            font-size: 0.8rem;
            font-weight: 600;
            text-transform: uppercase;
        }

        .attempt-status.ok { background: #c6f6d5; color: #38a169; }
        .attempt-status.build_error { background: #feebc8; color: #dd6b20; }
        .attempt-status.crash { background: #fed7d7; color: #c53030; }
        .attempt-status.timeout { background: #fef5e7; color: #d69e2e; }
        .attempt-status.error { background: #e2e8f0; color: #718096; }

        .attempt-details {
            color: #718096;
            font-size: 0.9rem;
        }

        .format-table {
            width: 100%;
            border-collapse: collapse;
        }

        .format-table th {
            text-align: left;
            color: #4a5568;
            padding: 12px;
            border-bottom: 2px solid #e2e8f0;
            text-transform: uppercase;
            font-size: 0.8rem;
            letter-spacing: 0.5px;
        }

        .format-table td {
            padding: 12px;
            border-bottom: 1px solid #edf2f7;
            color: #2d3748;
        }

        .format-table tr:hover td {
            background: #f7fafc;
        }

        .footer {
            text-align: center;
            padding: 30px;
            color: rgba(255, 255, 255, 0.8);
            font-size: 0.9rem;
        }

        @media (max-width: 768px) {
            .container {
                padding: 10px;
            }

            .header h1 {
                font-size: 2rem;
            }

            .charts-grid {
                grid-template-columns: 1fr;
            }

            .stats-grid {
                grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1><i class="fas fa-file-code"></i> {{.Title}}</h1>
            <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}} | Session: {{.SessionID}} | Version: {{.Version}}</p>
        </div>

        <div class="stats-grid">
            <div class="stat-card">
                <h3><i class="fas fa-shapes"></i> Formats</h3>
                <div class="value">{{.Summary.Formats}}</div>
                <div class="label">Generated Formats</div>
            </div>
            <div class="stat-card">
                <h3><i class="fas fa-play-circle"></i> Attempts</h3>
                <div class="value">{{.Summary.Attempts}}</div>
                <div class="label">Oracle Attempts</div>
            </div>
            <div class="stat-card">
                <h3><i class="fas fa-check-circle"></i> Successes</h3>
                <div class="value">{{.Summary.Successes}}</div>
                <div class="label">Parsers That Ran</div>
            </div>
            <div class="stat-card">
                <h3><i class="fas fa-percentage"></i> Success Rate</h3>
                <div class="value">{{printf "%.1f" .SuccessRate}}%</div>
                <div class="label">Of All Attempts</div>
            </div>
            <div class="stat-card">
                <h3><i class="fas fa-chart-line"></i> Mean Score</h3>
                <div class="value">{{printf "%.2f" .Summary.MeanScore}}</div>
                <div class="label">Validation Score</div>
            </div>
            <div class="stat-card">
                <h3><i class="fas fa-trophy"></i> Best Score</h3>
                <div class="value">{{printf "%.2f" .Summary.BestScore}}</div>
                <div class="label">Validation Score</div>
            </div>
        </div>

        <div class="tabs">
            <div class="tab active" onclick="showTab('overview')">
                <i class="fas fa-chart-bar"></i> Overview
            </div>
            <div class="tab" onclick="showTab('attempts')">
                <i class="fas fa-list"></i> Attempts
            </div>
            <div class="tab" onclick="showTab('formats')">
                <i class="fas fa-shapes"></i> Formats
            </div>
        </div>

        <div id="overview" class="tab-content active">
            <div class="charts-grid">
                <div class="chart-container">
                    <h3>Validation Score Trend</h3>
                    <div class="chart-wrapper">
                        <canvas id="scoreTrendChart"></canvas>
                    </div>
                </div>
                <div class="chart-container">
                    <h3>Attempt Status Distribution</h3>
                    <div class="chart-wrapper">
                        <canvas id="statusChart"></canvas>
                    </div>
                </div>
                <div class="chart-container">
                    <h3>Best Score by Format</h3>
                    <div class="chart-wrapper">
                        <canvas id="formatChart"></canvas>
                    </div>
                </div>
            </div>
        </div>

        <div id="attempts" class="tab-content">
            <div class="attempt-list">
                <h3><i class="fas fa-list"></i> Recent Attempts</h3>
                {{range .Attempts}}
                <div class="attempt-item {{.Status}}">
                    <div class="attempt-header">
                        <div class="attempt-title">{{.Format}}</div>
                        <div class="attempt-status {{.Status}}">{{.Status}}</div>
                    </div>
                    <div class="attempt-details">
                        <p><strong>Time:</strong> {{.Timestamp.Format "2006-01-02 15:04:05"}}</p>
                        <p><strong>File:</strong> {{.FilePath}}</p>
                        <p><strong>Score:</strong> {{printf "%.2f" .ValidationScore}} | <strong>Duration:</strong> {{.DurationMS}}ms</p>
                    </div>
                </div>
                {{end}}
            </div>
        </div>

        <div id="formats" class="tab-content">
            <div class="attempt-list">
                <h3><i class="fas fa-shapes"></i> Format Leaderboard</h3>
                <table class="format-table">
                    <tr>
                        <th>Format</th>
                        <th>Files</th>
                        <th>Attempts</th>
                        <th>Best Score</th>
                        <th>Mean Score</th>
                    </tr>
                    {{range .Formats}}
                    <tr>
                        <td>{{.Name}}</td>
                        <td>{{.Files}}</td>
                        <td>{{.Attempts}}</td>
                        <td>{{printf "%.2f" .BestScore}}</td>
                        <td>{{printf "%.2f" .MeanScore}}</td>
                    </tr>
                    {{end}}
                </table>
            </div>
        </div>
    </div>

    <div class="footer">
        <p>&copy; 2025 Lyra Formats - Binary Format Recovery Harness</p>
    </div>

    <script>
        // Chart.js configuration
        Chart.defaults.font.family = "'Segoe UI', Tahoma, Geneva, Verdana, sans-serif";
        Chart.defaults.color = '#4a5568';

        // Initialize charts
        const scoreTrendChart = new Chart(
            document.getElementById('scoreTrendChart'),
            {{.Charts.ScoreTrendChart | json}}
        );

        const statusChart = new Chart(
            document.getElementById('statusChart'),
            {{.Charts.StatusChart | json}}
        );

        const formatChart = new Chart(
            document.getElementById('formatChart'),
            {{.Charts.FormatChart | json}}
        );

        // Tab functionality
        function showTab(tabName) {
            // Hide all tab contents
            const tabContents = document.querySelectorAll('.tab-content');
            tabContents.forEach(content => content.classList.remove('active'));

            // Remove active class from all tabs
            const tabs = document.querySelectorAll('.tab');
            tabs.forEach(tab => tab.classList.remove('active'));

            // Show selected tab content
            document.getElementById(tabName).classList.add('active');

            // Add active class to clicked tab
            event.target.classList.add('active');
        }
    </script>
</body>
</html>`
