package shop

// Well-known store keys. These names are shared with the storefront
// frontend and must not change without a data migration.
const (
	// KeyGlobalTimestamp holds the global revision marker (decimal ms).
	KeyGlobalTimestamp = "global_timestamp"

	// KeyLastCheck records when a poller last compared revisions.
	// Informational only.
	KeyLastCheck = "last_timestamp_check"

	// KeyForceUpdate holds the timestamp of the last forced update.
	KeyForceUpdate = "force_update_timestamp"

	// KeyProducts holds the product collection snapshot.
	KeyProducts = "admin_products"

	// KeySettings holds the site settings snapshot.
	KeySettings = "admin_settings"

	// KeyAdminAuthenticated is the sentinel written by the admin login gate.
	KeyAdminAuthenticated = "admin_authenticated"
)
