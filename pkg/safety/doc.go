// Package safety screens user messages for crisis language and supplies the
// canned crisis reply and disclaimer text.
//
// Both features are off by default. When crisis detection is enabled the
// conversation service answers a matching message with CrisisReply instead of
// calling the completion provider.
package safety
