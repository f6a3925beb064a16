package assetstore

import "context"

// Asset describes an object held by the remote asset host.
type Asset struct {
	// URL is the publicly reachable reference to the stored object.
	URL string
	// ProviderID is the host's own identifier for the object; deletion
	// addresses objects by this, not by URL.
	ProviderID string
}

// Store is the contract the orchestrators depend on. Implementations upload
// and delete binary objects in a remote host under a caller-chosen namespace
// (one namespace per user per trip). Failures are terminal: the store never
// retries, and callers compensate rather than retry.
type Store interface {
	// Upload pushes data into the given namespace. The host picks a
	// collision-proof name and may normalize format/quality.
	Upload(ctx context.Context, data []byte, namespace string) (Asset, error)

	// Delete removes a single object, addressed by URL or provider ID.
	Delete(ctx context.Context, ref string) error

	// DeleteNamespace removes every object under the namespace, then the
	// namespace itself.
	DeleteNamespace(ctx context.Context, namespace string) error
}
