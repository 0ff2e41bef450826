package config

// DefaultConfigTOML is written by `pyplag init`
const DefaultConfigTOML = `# pyplag configuration
# Values below are the built-in defaults. Command line flags override them.

[scoring]
# Decimal digits kept in every score (1-10)
precision = 3

# Pairs scoring at or above this value are flagged in reports
threshold = 0.8

# Cross comparison reports hide pairs scoring below this value
min_score = 0.0

[batch]
# Concurrent pair comparisons; 0 uses one worker per CPU
workers = 0

# Seconds allowed for a single pair; 0 disables the limit
pair_timeout_seconds = 0

# What to do when a pair cannot be scored:
#   "abort"    stop the batch and report the failing pair
#   "sentinel" record -1 for the pair and continue
on_error = "abort"

[output]
# text, json, yaml, csv or html
format = "text"

# Show a progress bar on interactive terminals
show_progress = true

# Persist every run to this SQLite database when set
# sqlite_path = "pyplag-runs.db"
`
