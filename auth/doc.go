// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and admin key checks.

# Identifiers

Survey responses and email records get random UUID-based IDs:

	id := auth.NewResponseID()
	emailID := auth.NewEmailID() // "email_<uuid>"

Clients may supply their own response ID. ValidateID accepts 1-128
characters from [A-Za-z0-9_-], so IDs are safe as file and table keys.

# Admin Key

Reporting and destructive endpoints can be protected with a shared key
taken from configuration (ADMIN_KEY). Comparison is constant-time:

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), cfg.AdminKey)

An empty configured key disables the check.
*/
package auth
