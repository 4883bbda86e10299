package validate

// RulesText is the human-readable summary of the validation rules, printed by
// the CLI on request.
const RulesText = `VALIDATION RULES

Minimal requirements
--------------------

- All ids (page squid, run id, section path, etc.) must be non-empty ASCII strings.

- A paragraph id must be a hexadecimal string of 40 characters that is contained
  in the paragraph corpus.

- Paragraphs for a page must be a non-empty list.

- The minimal representation of a paragraph is the paragraph id. The para_body
  element is optional, but if given it must agree with the corpus content. It
  cannot be set to an empty list; the field must be omitted instead.

- A page's paragraph_origins are optional, but if given they must carry a valid
  section path and a float-valued rank_score. The field cannot be set to an
  empty list; it must be omitted instead.

  - The section_path must refer to a valid heading id of the page outline, in
    the format "squid/heading id", or be the bare squid for paragraphs
    retrieved for the page as a whole.

  - Up to 20 origins are allowed per heading.

  - The rank field is optional, but if given it must agree with the sort order
    of rank_score. The lowest valid rank is 1. Ranks must be unique (no ties).

Strict Y3 requirements
----------------------

- All page squids must start with the namespace "tqa2:" and cannot contain
  "%20" symbols.

- Run ids must not contain more than 15 characters from [A-Za-z0-9_.-] and
  cannot start with '.'.

- At most 20 paragraphs can be given per page.

- Every page of the outline must be submitted, and no other page.
`
