// Package catalog holds the reference set of causal constructions and the
// regular-expression patterns that detect them in text.
//
// A Catalog is an owned registry, built once (usually from the embedded
// data/catalog.yaml) and handed to the session engine. It is append-only:
// duplicate construction ids and pattern descriptions are rejected without
// overwriting the first registration.
//
// # Matching
//
// Match runs one search per pattern, in catalog order, over the raw text.
// This is surface matching only; there is no tokenization or parsing.
//
// # Catalog files
//
// Catalog files are YAML:
//
//	constructions:
//	  - id: C146
//	    degree: facilitate
//	    order: cause_effect
//	    template: "<cause> causes <effect>"
//	    example: "Something that simple causes problems in subprime."
//	patterns:
//	  - description: "<cause> causes <effect>"
//	    regex: '\b(cause|causes|caused|causing)\b'
//	    constructions: [C146]
//
// Files loaded with LoadFile are validated against schema.cue first.
package catalog
