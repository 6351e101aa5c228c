package api

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>forumpulse</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, system-ui, sans-serif; background: #0f172a; color: #e2e8f0; min-height: 100vh; }
        .header { background: linear-gradient(135deg, #1e293b, #334155); padding: 1.5rem 2rem; border-bottom: 1px solid #475569; }
        .header h1 { font-size: 1.5rem; color: #38bdf8; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); gap: 1rem; padding: 2rem; }
        .card { background: #1e293b; border: 1px solid #334155; border-radius: 12px; padding: 1.5rem; }
        .card .label { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.05em; color: #94a3b8; margin-bottom: 0.5rem; }
        .card .value { font-size: 2rem; font-weight: 700; color: #f1f5f9; }
        .links { padding: 0 2rem 2rem; }
        .links a { display: inline-block; margin: 0 1rem 0.5rem 0; color: #818cf8; }
        .footer { text-align: center; padding: 1rem; color: #475569; font-size: 0.75rem; }
    </style>
</head>
<body>
    <div class="header"><h1>forumpulse</h1></div>
    <div class="grid">
        <div class="card"><div class="label">Posts</div><div class="value" id="items">0</div></div>
        <div class="card"><div class="label">Subreddits</div><div class="value" id="groups">0</div></div>
        <div class="card"><div class="label">Mean VADER polarity</div><div class="value" id="vader">0</div></div>
        <div class="card"><div class="label">Mean polarity</div><div class="value" id="polarity">0</div></div>
        <div class="card"><div class="label">Mean subjectivity</div><div class="value" id="subjectivity">0</div></div>
    </div>
    <div class="links">
        <a href="/reports/group_frequency.html">Posts per subreddit</a>
        <a href="/reports/word_cloud.html">Word cloud</a>
        <a href="/reports/word_frequency.html">Word frequencies</a>
        <a href="/reports/sentiment.html">Sentiment</a>
        <a href="/api/items">Items (JSON)</a>
    </div>
    <div class="footer" id="source"></div>
    <script>
        async function load() {
            try {
                const r = await fetch('/api/stats');
                const d = await r.json();
                const s = d.stats || {};
                const sum = s.summary || {};
                document.getElementById('items').textContent = s.items || 0;
                document.getElementById('groups').textContent = (s.groups || []).length;
                [['vader', 'vader_polarity'], ['polarity', 'polarity'], ['subjectivity', 'subjectivity']].forEach(([id, k]) => {
                    if (sum[k]) document.getElementById(id).textContent = sum[k].mean.toFixed(3);
                });
                document.getElementById('source').textContent = d.source || '';
            } catch(e) {}
        }
        load();
    </script>
</body>
</html>`
