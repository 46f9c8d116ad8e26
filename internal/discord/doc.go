// Package discord holds the thin REST collaborators the core depends on:
// channel message fetch (snapshot source), guild role lookup (mention
// targets), and the webhook sink (create/edit of the published message).
//
// The package deliberately wraps only the handful of endpoints the bot
// uses; it is not a general Discord client.
package discord
