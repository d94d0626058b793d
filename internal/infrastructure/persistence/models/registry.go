package models

// All returns one zero value of every persistence model, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&BusinessRegistrationModel{},
		&TaskModel{},
		&TaskTemplateModel{},
		&TaskActivityModel{},
		&TaskFileModel{},
		&ClienteModel{},
		&IrHistoricoModel{},
		&ContratacaoModel{},
		&ClienteMeiModel{},
		&DasGuiaModel{},
		&EnvioLogModel{},
		&ProgramacaoEnvioModel{},
		&MessageTemplateModel{},
		&EvolutionInstanceModel{},
		&SystemLogModel{},
		&AutomationSettingModel{},
		&FeriadoModel{},
		&RetryItemModel{},
		&ApiConfigurationModel{},
		&ApiChangeLogModel{},
	}
}
