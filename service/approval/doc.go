// Package approval implements the human-in-the-loop approval layer. It lets
// selected operations pause until an explicit approve or reject decision is
// recorded, with a wall-clock timeout resolving unattended requests.
package approval
