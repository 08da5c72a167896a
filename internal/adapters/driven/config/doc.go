// Package config loads gh-freshdesk settings from the environment, an
// optional .env file and an optional config file.
//
// Environment variables keep the names the tool has always used
// (REPO_OWNER, GITHUB_TOKEN, FRESHDESK_API_KEY, ...). A config file uses the
// dotted keys instead, e.g.
//
//	[github]
//	owner = "acme"
//	repo = "widgets"
//
//	[freshdesk]
//	group_id = 4200
//
// Environment values win over the config file.
package config
