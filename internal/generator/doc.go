// Package generator scaffolds new Gradle modules.
//
// # Features
//
//   - Groovy and Kotlin build scripts rendered from embedded templates
//   - Two-phase execution: every operation is validated before any file is written
//   - Rollback of files already written when a later operation fails
//   - Dry runs that report what would be created
//
// # Usage
//
//	project, err := generator.Normalize(generator.ProjectOptions{Name: "billing"})
//	if err != nil {
//	    return err
//	}
//	ops, err := project.Operations(root, generator.NewRenderer())
//	if err != nil {
//	    return err
//	}
//	return generator.Execute(ctx, ops, generator.ExecuteOptions{})
package generator
