// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - SurveyRequest: answers plus optional client-computed scores and metadata
  - AttachContactRequest: email
  - DeleteAllRequest: confirm
  - SendEmailRequest: toEmail, subject, results or responseId

Numeric fields on SurveyRequest are pointers so an omitted value can be
told apart from zero. ToResponse defaults them to zero.

# Domain Types

  - SurveyResponse: one stored submission
  - EmailRecord: one delivery attempt
  - Stats: aggregate over all stored responses

# Constants

Answer values: AnswerYes ("1"), AnswerNo ("2").

Categories: A, B, C. DominantMixed marks a tie; DominantUnknown buckets
responses stored without a dominant category.
*/
package models
