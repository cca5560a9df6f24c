package scraper

import "errors"

// ErrSessionLost means the browser got de-authenticated mid-run (bounced to
// a login, authwall or checkpoint page). Remaining queries are abandoned;
// whatever was already collected still flows through the pipeline.
var ErrSessionLost = errors.New("session lost: de-authenticated mid-run")
