// Package timezone holds the application time zone.
//
// Usage:
//
//	timezone.Init(cfg.App.Timezone)          // once at startup, defaults to UTC
//	now := timezone.Now()                    // current time in the app zone
//	formatted := timezone.Format(t, layout)  // render any time in the app zone
//	t, err := timezone.Parse(layout, value)  // parse a zone-less value in the app zone
//
// Until Init is called every helper works in UTC. Use IANA names such as
// "UTC", "Europe/Berlin" or "Asia/Jakarta".
package timezone
