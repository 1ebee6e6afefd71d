/*
Package security groups the request-authentication code for Solace.

TLS is terminated in front of the proxy and secrets arrive through the
configuration layer, so the only subpackage is auth: the shared-secret
validator and credential extraction for the devkey header.

	validator := auth.NewSecretValidator(cfg.Auth.Secret, cfg.Auth.SecretHash)
	credential, _ := auth.ExtractCredential(r, auth.DefaultSources(cfg.Auth.Header))
	if !validator.Authorize(credential) {
		// 401
	}
*/
package security
