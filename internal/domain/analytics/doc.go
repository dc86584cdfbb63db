// Package analytics reduces sale, product and branch rows into the figures
// shown on the dashboard and in reports. Functions here do no I/O and never
// modify their inputs.
package analytics
