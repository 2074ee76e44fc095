// Package filter computes, for a context's activated vocabulary, which tokens
// and instruction classes remain reachable.
//
// Two variants of the legality test are served by one Filter:
//
//   - ModeMorphological (default) segments each candidate token into
//     prefix/middle/suffix and checks every slot against the activation.
//   - ModeCoarse marks a class legal when its declared vocabulary intersects
//     the activated middles, ignoring prefixes and suffixes.
//
// The two disagree whenever a class's declared vocabulary differs from the
// middles of its member tokens, or when prefix/suffix activation excludes a
// token. Divergence reports those classes instead of picking one silently.
//
// The protected classes are legal under every mode and every activation.
// The forbidden-transition graph is not an input.
package filter
