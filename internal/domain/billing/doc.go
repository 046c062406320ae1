// Package billing provides the domain model for collaborator billing and
// government funding claims in an energy-renovation workflow.
//
// This package implements the billing bounded context, which is responsible for:
//   - Recording billable activities performed by collaborators, with the
//     amount frozen at the collaborator's rate at recording time
//   - Aggregating a collaborator's pending activities for a month into a
//     monthly invoice, exactly one invoice per collaborator and period
//   - Tracking government funding claims (MaPrimeRenov, CEE, Eco-PTZ)
//     through their submission, acceptance, payment and rejection lifecycle
//
// Key Aggregates:
//   - BillableActivity: Immutable record of work performed in a billing period
//   - MonthlyInvoice: One collaborator's invoice for one month (DRAFT -> SENT -> PAID)
//   - GovernmentInvoice: A funding claim covering one or more renovation dossiers
//
// Value Objects:
//   - Statistics: Aggregated invoice counts and amounts, computed as pure
//     folds over invoice sets
//
// The billing domain depends on the collaborator domain for rates and
// service types, and on shared value objects for money and periods.
package billing
