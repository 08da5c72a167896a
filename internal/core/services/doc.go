// Package services implements the driving ports.
//
// The pagination walker pulls issue pages until the watermark, the ticket
// builder turns an issue into a ticket, and the controller ties them to the
// sink and the processed label. The scheduler repeats a migration on a cron
// expression.
package services
