// Package retention prunes audit records by age and by count, either on
// demand or on a cron schedule.
package retention
