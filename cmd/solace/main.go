// Solace is a supportive-chat completion proxy.
//
// It keeps one shared conversation transcript, forwards each message with
// the whole transcript to an OpenAI-compatible completion API and returns
// the reply. Requests are authorized with a shared secret sent in the
// devkey header.
//
// Usage:
//
//	# Start the proxy (reads solace.yaml and .env when present)
//	solace run
//
//	# Check a configuration file
//	solace validate --config /etc/solace/solace.yaml
//
//	# Talk to a running proxy
//	solace send "I had a rough day" --secret "$SECRET_KEY"
//	solace clear --secret "$SECRET_KEY"
//
//	# Inspect the audit trail
//	solace audit list --since 24h --format json
//
//	# Hash a shared secret for auth.secret_hash
//	solace secret hash
package main

func main() {
	Execute()
}
